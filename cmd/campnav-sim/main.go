// Command campnav-sim plays a device session against a running campnav
// service.
package main

import "github.com/okian/campnav/internal/simulator"

func main() {
	simulator.Execute()
}
