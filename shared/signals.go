package main

import "C"

import (
	"unsafe"

	"github.com/shlapabank/dashboard-go/signal"
)

// DashboardSetSignalEventCallback installs a C callback receiving every
// signal envelope as a JSON string. The string is freed after the call
// returns.
//
//export DashboardSetSignalEventCallback
func DashboardSetSignalEventCallback(cb unsafe.Pointer) {
	setCallback(cb)
	if cb == nil {
		signal.SetSignalHandler(nil)
		return
	}
	signal.SetSignalHandler(emit)
}
