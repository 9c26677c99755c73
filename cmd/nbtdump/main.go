// nbtdump - NBT debugging CLI
//
// Usage:
//
//	nbtdump dump [--little] [--no-sniff] [file]   Pretty-print a document
//	nbtdump region list [file]                    Fast header-only chunk listing
//	nbtdump region dump [--mmap] [--workers=N] [file]
//	                                              Decode and print every chunk
//	nbtdump version                               Print version info
//
// Compression (gzip, zlib, none) and vendor headers are sniffed
// automatically; --no-sniff disables vendor-header detection.
//
// If no file is given, dump reads from stdin. Region commands need a
// seekable file and take no stdin.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/cavern-io/nbt/nbt"
	"github.com/cavern-io/nbt/region"
)

const version = "0.3.0"

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "region" {
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "nbtdump region: missing subcommand (list, dump)")
			os.Exit(1)
		}
		runRegion(os.Args[2], os.Args[3:])
		return
	}

	switch cmd {
	case "dump":
		runDump(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("nbtdump %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `nbtdump - NBT debugging tool

Usage:
  nbtdump dump [--little] [--no-sniff] [file]   Pretty-print a document
  nbtdump region list [file]                    Fast header-only chunk listing
  nbtdump region dump [--mmap] [--workers=N] [file]
                                                Decode and print every chunk
  nbtdump version                               Print version info

Options:
  --little       Decode the little-endian wire variant
  --no-sniff     Disable vendor-header detection
  --mmap         Memory-map the region file
  --workers=N    Decode chunks on N goroutines (default 1)

If no file is given, dump reads from stdin.
`)
}

func runDump(args []string) {
	var opts []nbt.Option
	fileArg := ""
	for _, arg := range args {
		switch {
		case arg == "--little":
			opts = append(opts, nbt.WithLittleEndian())
		case arg == "--no-sniff":
			opts = append(opts, nbt.WithoutHeaderSniffing())
		default:
			if !strings.HasPrefix(arg, "-") {
				fileArg = arg
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	doc, err := nbt.Load(input, opts...)
	if err != nil {
		fatal("load: %v", err)
	}
	if doc.Header() != nbt.HeaderNone {
		log.Info().
			Stringer("header", doc.Header()).
			Uint32("version", doc.HeaderVersion()).
			Msg("vendor header detected")
	}
	fmt.Print(nbt.Dump(doc.Root(), "  "))
}

func runRegion(sub string, args []string) {
	useMmap := false
	workers := 1
	fileArg := ""
	for _, arg := range args {
		switch {
		case arg == "--mmap":
			useMmap = true
		case strings.HasPrefix(arg, "--workers="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "--workers="))
			if err != nil || n < 1 {
				fatal("bad --workers value: %s", arg)
			}
			workers = n
		default:
			if !strings.HasPrefix(arg, "-") {
				fileArg = arg
			}
		}
	}
	if fileArg == "" {
		fatal("region %s: missing file argument", sub)
	}

	switch sub {
	case "list":
		regionList(fileArg)
	case "dump":
		regionDump(fileArg, useMmap, workers)
	default:
		fmt.Fprintf(os.Stderr, "nbtdump region: unknown subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func regionList(path string) {
	rg, err := region.OpenFile(path)
	if err != nil {
		fatal("open region: %v", err)
	}
	defer rg.Close()

	coordCol := color.New(color.FgCyan).SprintfFunc()
	for _, c := range rg.Coords() {
		fmt.Printf("%s  ts=%d\n", coordCol("chunk %2d,%2d", c.X, c.Z), rg.Timestamp(c.X, c.Z))
	}
	fmt.Printf("%d chunks present\n", len(rg.Coords()))
}

func regionDump(path string, useMmap bool, workers int) {
	var (
		rg  *region.Region
		err error
	)
	if useMmap {
		rg, err = region.OpenMmap(path)
	} else {
		rg, err = region.OpenFile(path)
	}
	if err != nil {
		fatal("open region: %v", err)
	}
	defer rg.Close()

	var chunks []*region.Chunk
	if workers > 1 {
		chunks = rg.ChunksParallel(workers)
	} else {
		chunks = rg.Chunks()
	}

	heading := color.New(color.FgYellow, color.Bold).SprintfFunc()
	failed := 0
	for _, c := range chunks {
		if c.Err != nil {
			// One corrupt chunk must not hide the rest.
			failed++
			log.Error().Err(c.Err).Stringer("chunk", c.Coord).Msg("chunk failed to decode")
			continue
		}
		fmt.Println(heading("=== chunk %s (modified %s) ===", c.Coord, c.Time().UTC().Format("2006-01-02 15:04:05")))
		fmt.Print(nbt.Dump(c.Doc.Root(), "  "))
	}
	log.Info().
		Int("decoded", len(chunks)-failed).
		Int("failed", failed).
		Str("size", humanize.Bytes(uint64(fileSize(path)))).
		Msg("region dump complete")
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "nbtdump: "+format+"\n", args...)
	os.Exit(1)
}
