package logger

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// DefaultLogger writes one line per message, key/value pairs appended.
// Debug messages are dropped unless enabled.
type DefaultLogger struct {
	wr    io.Writer
	debug bool
	mu    sync.Mutex
}

func NewDefaultLogger(wr io.Writer, debug bool) Logger {
	return &DefaultLogger{wr: wr, debug: debug}
}

func (s *DefaultLogger) Info(msg string, args ...interface{}) {
	s.log("INFO", msg, args...)
}

func (s *DefaultLogger) Debug(msg string, args ...interface{}) {
	if !s.debug {
		return
	}
	s.log("DEBUG", msg, args...)
}

func (s *DefaultLogger) log(kind string, msg string, args ...interface{}) {
	kvs, err := formatArgs(args)
	if err != nil {
		kind = "ERROR"
		msg = fmt.Sprintf("logger invalid args passed. Msg: %v Args: %v Err: %v", msg, args, err)
		kvs = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.wr, "%v %v%v\n", kind, msg, kvs)
}

func formatArgs(args []interface{}) (string, error) {
	if len(args)%2 != 0 {
		return "", errors.New("len of args not even")
	}
	res := ""
	for i := 0; i < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			return "", errors.New("key arg passed in not a string")
		}
		res += fmt.Sprintf(" %v=%v", k, args[i+1])
	}
	return res, nil
}
