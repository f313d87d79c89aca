// main.go
package main

import "github.com/David-Botos/raw-to-ready/cmd"

func main() {
	cmd.Execute()
}
