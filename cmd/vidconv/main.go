// Command vidconv is the scripted batch converter: it probes the input,
// plans the conversion, prints what it will do, asks for confirmation,
// and runs ffmpeg.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
