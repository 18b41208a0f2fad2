package main

import (
	"bitbucket.org/airenas/vtgo/internal/app/clean"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	clean.Execute()
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
    _____/ /__  ____ _____
   / ___/ / _ \/ __ ` + "`" + `/ __ \
  / /__/ /  __/ /_/ / / / /
  \___/_/\___/\__,_/_/ /_/ v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("bitbucket.org/airenas/vtgo"))
}
