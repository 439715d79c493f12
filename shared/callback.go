package main

/*
#include <stdlib.h>

typedef void (*signal_callback)(const char *);

static signal_callback callback = NULL;

static void set_signal_callback(void *cb) {
	callback = (signal_callback)cb;
}

static void emit_signal(const char *data) {
	if (callback != NULL) {
		callback(data);
	}
}
*/
import "C"

import (
	"unsafe"
)

func setCallback(cb unsafe.Pointer) {
	C.set_signal_callback(cb)
}

func emit(data []byte) {
	str := C.CString(string(data))
	defer C.free(unsafe.Pointer(str))
	C.emit_signal(str)
}
