// main.go - Main entry point for the Vince synthesizer

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	var watch bool

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&watch, "watch", true, "Reload the rack file when it changes on disk")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./vince [-watch=false] rack.yaml")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	rackPath := flagSet.Arg(0)
	if rackPath == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	host, err := NewHost(rackPath, watch)
	if err != nil {
		fmt.Printf("Error loading rack: %v\n", err)
		os.Exit(1)
	}
	defer host.Close()

	if err := RunFrontend(host); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
