// Command hsdump inspects files written with hsstream.
//
//	hsdump atoms scene.prp               # list atom headers
//	hsdump tokens --max 32 settings.ini  # print whitespace-delimited tokens
//	hsdump lines settings.ini            # print non-comment lines
//	hsdump stats --chunk 64 scene.prp    # read through a Buffered stream and report cache statistics
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
