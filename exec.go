package seamcarving

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/esimov/seamcarving/utils"
	"github.com/samber/lo"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

var (
	// inputExtensions lists the file types that can be decoded.
	// These are the files picked up when a directory is processed.
	inputExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}
	// outputExtensions lists the file types encodeImg can write.
	outputExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff"}
)

// Ops describes where the images are read from and written to.
type Ops struct {
	// Src is a file, a directory, an URL or PipeName for stdin.
	Src string
	// Dst is a file, a directory or PipeName for stdout.
	Dst      string
	PipeName string
	// Workers is the number of files processed concurrently when Src is a directory.
	Workers int
	// Spinner, when set, shows the progress of single file operations.
	Spinner *utils.Spinner
}

// result holds the outcome of resizing one file.
type result struct {
	path string
	err  error
}

// Execute resizes the image(s) designated by op. Directories are processed
// by a pool of workers, every other source is processed in place.
func (p *Processor) Execute(ctx context.Context, op *Ops) error {
	src := op.Src
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(ctx, src)
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		defer os.Remove(f.Name())
		if err := f.Close(); err != nil {
			return err
		}
		src = f.Name()
	}

	var (
		fi  os.FileInfo
		err error
	)
	if src == op.PipeName {
		fi, err = os.Stdin.Stat()
	} else {
		fi, err = os.Stat(src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	now := time.Now()
	switch mode := fi.Mode(); {
	case mode.IsDir():
		err = p.processDir(ctx, op, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || mode&os.ModeCharDevice != 0:
		ext := strings.ToLower(filepath.Ext(op.Dst))
		if op.Dst != op.PipeName && !isValidExtension(ext, outputExtensions) {
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
		err = op.process(p, src, op.Dst)
		op.printOpStatus(op.Dst, err)
	default:
		return fmt.Errorf("unsupported source %s", src)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	return nil
}

// processDir resizes every supported image found under dir concurrently.
func (p *Processor) processDir(ctx context.Context, op *Ops, dir string) error {
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return fmt.Errorf("unable to create the destination directory: %w", err)
	}

	workers := op.Workers
	// Limit the concurrently running workers to maxWorkers.
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	// Every worker needs its own copy since the progress callback is per file.
	proc := *p
	proc.Progress = nil

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan result)
	paths, errc := walkDir(ctx, dir, inputExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(ctx, &proc, op.Dst, ch, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var errs []error
	for res := range ch {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.path, res.err))
		}
		op.printOpStatus(res.path, res.err)
	}
	if err := <-errc; err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// consumer reads the path names from the paths channel and calls the resizing processor against the source image.
func (op *Ops) consumer(
	ctx context.Context,
	p *Processor,
	dest string,
	res chan<- result,
	paths <-chan string,
) {
	for src := range paths {
		err := resizeFile(p, src, outputPath(dest, src))

		select {
		case <-ctx.Done():
			return
		case res <- result{path: src, err: err}:
		}
	}
}

// process resizes a single file or pipe, showing the spinner when one is configured.
func (op *Ops) process(p *Processor, in, out string) error {
	if op.Spinner == nil {
		return op.resize(p, in, out)
	}

	proc := *p
	proc.Progress = func(done, total int) {
		op.Spinner.SetSuffix(fmt.Sprintf("%d/%d seams", done, total))
		if p.Progress != nil {
			p.Progress(done, total)
		}
	}

	op.Spinner.Start()
	err := op.resize(&proc, in, out)
	if err != nil {
		op.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ SEAMCARVING", utils.StatusMessage),
			utils.DecorateText("resizing image failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
	} else {
		op.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ SEAMCARVING", utils.StatusMessage),
			utils.DecorateText("⇢", utils.DefaultMessage),
			utils.DecorateText("the image has been resized successfully ✔", utils.SuccessMessage),
		)
	}
	op.Spinner.Stop()
	return err
}

func (op *Ops) resize(p *Processor, in, out string) error {
	if in != op.PipeName && out != op.PipeName {
		return resizeFile(p, in, out)
	}
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}
	defer closeFile(src)
	defer closeFile(dst)

	if err := p.Process(src, dst); err != nil {
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			os.Remove(f.Name())
		}
		return err
	}
	return nil
}

// resizeFile resizes the image file in and writes the result to out.
// The destination is removed if the resize fails.
func resizeFile(p *Processor, in, out string) error {
	src, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("unable to open the source file: %w", err)
	}
	defer closeFile(src)

	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}

	if err := p.Process(src, dst); err != nil {
		dst.Close()
		os.Remove(out)
		return err
	}
	return dst.Close()
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeFile(src)
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			closeFile(src)
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

// printOpStatus displays the relevant information about the image resizing process.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s",
			utils.DecorateText("\nError resizing the image: ", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported file to a new channel.
// It finishes in case the context is cancelled.
func walkDir(ctx context.Context, src string, srcExts []string) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !isValidExtension(strings.ToLower(filepath.Ext(d.Name())), srcExts) {
				return nil
			}
			select {
			case <-ctx.Done():
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// outputPath returns where the resized version of src is written inside dir.
// Sources without an encoder keep their name but are written as PNG.
func outputPath(dir, src string) string {
	name := filepath.Base(src)
	ext := filepath.Ext(name)
	if !isValidExtension(strings.ToLower(ext), outputExtensions) {
		name = strings.TrimSuffix(name, ext) + ".png"
	}
	return filepath.Join(dir, name)
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	return lo.Contains(extensions, ext)
}

func closeFile(v any) {
	f, ok := v.(*os.File)
	if !ok || f == os.Stdin || f == os.Stdout {
		return
	}
	if err := f.Close(); err != nil {
		log.Printf("could not close the opened file: %v", err)
	}
}
