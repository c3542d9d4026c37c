package cli

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/iudanet/usersauth/internal/client/iocli"
)

// scriptedIO собирает вывод и отвечает на запросы ввода по очереди
type scriptedIO struct {
	mock      *iocli.IOMock
	out       strings.Builder
	inputs    []string
	passwords []string
	mu        sync.Mutex
}

func newScriptedIO(inputs, passwords []string) *scriptedIO {
	s := &scriptedIO{inputs: inputs, passwords: passwords}
	s.mock = &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			s.mu.Lock()
			defer s.mu.Unlock()
			fmt.Fprintln(&s.out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			s.mu.Lock()
			defer s.mu.Unlock()
			fmt.Fprintf(&s.out, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			return s.next(&s.inputs)
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return s.next(&s.passwords)
		},
	}
	return s
}

func (s *scriptedIO) next(queue *[]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(*queue) == 0 {
		return "", errors.New("unexpected prompt")
	}
	value := (*queue)[0]
	*queue = (*queue)[1:]
	return value, nil
}

func (s *scriptedIO) output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.String()
}
