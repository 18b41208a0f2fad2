package main

import (
	"bitbucket.org/airenas/vtgo/internal/app/transcription"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	transcription.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
       __
 _   _/ /_____ _____
| | / / __/ __ ` + "`" + `/ __ \
| |/ / /_/ /_/ / /_/ /
|___/\__/\__, /\____/
        /____/
  __                                    _       __  _
 / /__________ _____  ___________(_)___  / /_(_)___  ____
/ __/ ___/ __ ` + "`" + `/ __ \/ ___/ ___/ / __ \/ __/ / __ \/ __ \
\__/_/   \__,_/_/ /_/____/\___/_/ .___/\__/_/\____/_/ /_/ v: %s
                               /_/
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("bitbucket.org/airenas/vtgo"))
}
