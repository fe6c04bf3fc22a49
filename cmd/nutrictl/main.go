// Command nutrictl runs operator tasks against the nutrition backend.
package main

import "nutriai/nutrition-app/internal/cli"

func main() {
	cli.Execute()
}
