package main

import (
	"bitbucket.org/airenas/vtgo/internal/app/inform"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	inform.Execute()
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
    _       ____
   (_)___  / __/___  _________ ___
  / / __ \/ /_/ __ \/ ___/ __ ` + "`" + `__ \
 / / / / / __/ /_/ / /  / / / / / /
/_/_/ /_/_/  \____/_/  /_/ /_/ /_/ v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("bitbucket.org/airenas/vtgo"))
}
