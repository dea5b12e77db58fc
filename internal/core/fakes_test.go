package core

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeClient answers with a scripted sequence of responses. Once the script
// runs out the last entry repeats.
type fakeClient struct {
	mu     sync.Mutex
	script []fakeReply
	calls  []Record
	onCall func(n int)
}

type fakeReply struct {
	status int
	body   string
	err    error
}

func (f *fakeClient) CreateUser(ctx context.Context, record Record) (CreateResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, record.Clone())
	n := len(f.calls)
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err := ctx.Err(); err != nil {
		return CreateResponse{}, err
	}

	if len(f.script) == 0 {
		return CreateResponse{StatusCode: 201, Body: `{"message":"ok"}`}, nil
	}
	i := n - 1
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	r := f.script[i]
	if r.err != nil {
		return CreateResponse{}, r.err
	}
	return CreateResponse{StatusCode: r.status, Body: r.body}, nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func replies(statuses ...int) []fakeReply {
	out := make([]fakeReply, len(statuses))
	for i, s := range statuses {
		out[i] = fakeReply{status: s, body: "body"}
	}
	return out
}

// observed returns a logger that records every entry at DEBUG and above.
func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func countLevel(logs *observer.ObservedLogs, lvl zapcore.Level) int {
	n := 0
	for _, e := range logs.All() {
		if e.Level == lvl {
			n++
		}
	}
	return n
}
