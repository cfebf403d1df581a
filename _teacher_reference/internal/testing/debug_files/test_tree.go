//go:build debug
// +build debug

package main

func main() {
	processData()
	calculateResult()
}

func processData() {
	validateInput()
	transformData()
}

func validateInput() {
	// validate logic
}

func transformData() {
	// transform logic
}

func calculateResult() {
	computeSum()
	computeAverage()
}

func computeSum() {
	// sum logic
}

func computeAverage() {
	// average logic
}
