// Caravan is a headless driver for the caravan rules engine.
//
// Usage:
//
//	# Pit two bots against each other
//	caravan simulate --p1 smart --p2 random --rounds 100
//
//	# Expose engine metrics while simulating
//	caravan simulate --rounds 1000 --metrics-addr :9100
//
//	# Check a configuration file
//	caravan config validate --config caravan.yaml
package main

func main() {
	Execute()
}
