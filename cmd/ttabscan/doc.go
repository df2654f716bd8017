// Command ttabscan drives the trademark opposition pipeline from the
// terminal: search a party's proceedings, process cases into consolidated
// report rows, and maintain the classification cache.
package main
