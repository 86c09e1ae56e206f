package main

import "github.com/Prajwalb0208/Newsletter-automation/cmd"

func main() {
	cmd.Execute()
}
