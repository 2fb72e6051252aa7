// Command tstar is the taskstar command line client.
package main

func main() {
	Execute()
}
