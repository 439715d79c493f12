package backendtest

import "context"

type callKey struct{}

type callInfo struct {
	call    *Call
	failure *failure
}

func withCall(ctx context.Context, call *Call, f *failure) context.Context {
	return context.WithValue(ctx, callKey{}, callInfo{call: call, failure: f})
}

func callFrom(ctx context.Context) (*Call, *failure) {
	info, ok := ctx.Value(callKey{}).(callInfo)
	if !ok {
		return &Call{}, nil
	}
	return info.call, info.failure
}
