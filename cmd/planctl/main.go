// Command planctl computes energy targets and generates diet plans from the
// terminal, using the same pipeline as the HTTP API.
package main

func main() {
	Execute()
}
