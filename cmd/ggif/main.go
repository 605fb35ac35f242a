// Command ggif decodes GIF images from the command line.
//
// Usage:
//
//	ggif dec [options] <input.gif>   GIF → numbered PNG frames (use "-" for stdin)
//	ggif info <input.gif>            Display GIF metadata
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepteams/gif"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "dec":
		err = runDec(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "ggif: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ggif: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  ggif dec [options] <input.gif>   Decode GIF frames to PNG files
  ggif info <input.gif>            Display GIF metadata

Use "-" as input to read from stdin.

Run "ggif <command> -h" for command-specific options.
`)
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned wrapped so that Close leaves it open.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// --- dec ---

func runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ExitOnError)
	outDir := fs.String("o", ".", "output directory for PNG frames")
	first := fs.Bool("first", false, "decode only the first frame")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("dec: expected one input file")
	}

	in, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()

	base := frameBaseName(fs.Arg(0))

	if *first {
		img, err := gif.Decode(in)
		if err != nil {
			return err
		}
		return writePNG(filepath.Join(*outDir, base+".png"), img)
	}

	anim, err := gif.DecodeAll(in)
	if err != nil {
		return err
	}
	for i := range anim.Frames {
		name := fmt.Sprintf("%s_%03d.png", base, i)
		if err := writePNG(filepath.Join(*outDir, name), anim.Frames[i].Image); err != nil {
			return err
		}
	}
	fmt.Printf("wrote %d frame(s)\n", len(anim.Frames))
	return nil
}

func frameBaseName(path string) string {
	if path == "-" {
		return "frame"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- info ---

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("info: expected one input file")
	}

	in, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()

	anim, err := gif.DecodeAll(in)
	if err != nil {
		return err
	}

	fmt.Printf("Canvas:   %dx%d\n", anim.CanvasWidth, anim.CanvasHeight)
	fmt.Printf("Frames:   %d\n", len(anim.Frames))
	switch {
	case anim.LoopCount < 0:
		fmt.Printf("Loop:     infinite\n")
	case anim.LoopCount == 0:
		fmt.Printf("Loop:     play once\n")
	default:
		fmt.Printf("Loop:     %d repetitions\n", anim.LoopCount)
	}
	fmt.Printf("Duration: %v\n", anim.TotalDuration())
	for i := range anim.Frames {
		f := &anim.Frames[i]
		b := f.Bounds
		fmt.Printf("  frame %3d: %4dx%-4d at (%d,%d)  delay %-8v dispose %v\n",
			i, b.Dx(), b.Dy(), b.Min.X, b.Min.Y, f.Delay, f.Dispose)
	}
	return nil
}
