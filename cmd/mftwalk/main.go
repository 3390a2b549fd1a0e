package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	mftwalk "github.com/ntfsutils/mftwalk"
	"github.com/ntfsutils/mftwalk/output"
)

const (
	exitCodeUserError int = iota + 2
	exitCodeFunctionalError
	exitCodeTechnicalError
)

var verbose = false

func main() {
	start := time.Now()

	verboseFlag := flag.Bool("v", false, "verbose; print details about what's going on")
	jsonFlag := flag.Bool("j", false, "emit line-delimited JSON instead of CSV")
	driveFlag := flag.String("drive", "", "drive letter substituted for {Root}, e.g. C")
	pathExclFlag := flag.String("exclude-path", "", "regular expression; matching paths are suppressed")
	nameExclFlag := flag.String("exclude-name", "", "regular expression; matching filenames are suppressed")

	flag.Usage = printUsage
	flag.Parse()

	verbose = *verboseFlag
	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		os.Exit(exitCodeUserError)
		return
	}
	mftPath := args[0]

	settings := mftwalk.Settings{}
	if *driveFlag != "" {
		settings.DriveChar = &[]rune(*driveFlag)[0]
	}
	if *pathExclFlag != "" {
		re, err := regexp.Compile(*pathExclFlag)
		if err != nil {
			fatalf(exitCodeUserError, "Invalid -exclude-path regular expression: %v\n", err)
		}
		settings = settings.WithPathExclusion(re)
	}
	if *nameExclFlag != "" {
		re, err := regexp.Compile(*nameExclFlag)
		if err != nil {
			fatalf(exitCodeUserError, "Invalid -exclude-name regular expression: %v\n", err)
		}
		settings = settings.WithFilenameExclusion(re)
	}

	printVerbose("Opening MFT file %s\n", mftPath)
	p, err := mftwalk.Open(mftPath, settings)
	if err != nil {
		fatalf(exitCodeTechnicalError, "Unable to open MFT file: %v\n", err)
	}
	defer p.Close()

	printVerbose("Indexed %d records\n", p.RecordCount())

	var csvWriter *output.CSVWriter
	var jsonWriter *output.JSONWriter
	if *jsonFlag {
		jsonWriter = output.NewJSONWriter(os.Stdout)
	} else {
		csvWriter = output.NewCSVWriter(os.Stdout)
	}

	it := p.Iterator()
	count := 0
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		var writeErr error
		if jsonWriter != nil {
			writeErr = jsonWriter.Write(rec)
		} else {
			writeErr = csvWriter.Write(rec)
		}
		if writeErr != nil {
			fatalf(exitCodeTechnicalError, "Error writing record: %v\n", writeErr)
		}
		count++
	}

	printVerbose("Wrote %d records in %v\n", count, time.Since(start))
}

func printUsage() {
	out := os.Stderr
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(out, "\nusage: %s [flags] <mft file>\n\n", exe)
	fmt.Fprintln(out, "Walk an already-extracted NTFS $MFT file and print one record per entry.")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintf(out, "\nFor example: %s -v -drive C C.mft > c.csv\n", exe)
}

func fatalf(exitCode int, format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
	os.Exit(exitCode)
}

func printVerbose(format string, v ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, v...)
	}
}
