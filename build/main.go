package main

import (
	"os"
	"os/exec"

	"github.com/goyek/goyek/v2"
)

var vet = goyek.Define(goyek.Task{
	Name:  "vet",
	Usage: "Run go vet on all packages",
	Action: func(a *goyek.A) {
		cmd := exec.Command("go", "vet", "./...")
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			a.Error(err)
		}
	},
})

var test = goyek.Define(goyek.Task{
	Name:  "test",
	Usage: "Run all tests",
	Action: func(a *goyek.A) {
		cmd := exec.Command("go", "test", "./...")
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			a.Error(err)
		}
	},
})

var build = goyek.Define(goyek.Task{
	Name:  "build",
	Usage: "Build the gridcast binary",
	Action: func(a *goyek.A) {
		cmd := exec.Command("go", "build", "-o", "gridcast", "./cmd/gridcast")
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			a.Error(err)
		}
	},
})

var all = goyek.Define(goyek.Task{
	Name:  "all",
	Usage: "Run vet, test, and build",
	Deps:  goyek.Deps{vet, test, build},
})

func main() {
	goyek.Main(os.Args[1:])
}
