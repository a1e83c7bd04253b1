// Command hungry prints the dev cat's one line.
package main

import (
	"fmt"

	"kamuisnap/internal/devcat"
)

func main() {
	fmt.Println(devcat.HungryMessage)
}
