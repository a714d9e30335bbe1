package conversation_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PabloGalante/syntax-chat/internal/domain"
)

// stubModel answers from a queue of outcomes. An empty queue echoes the last
// user message.
type stubModel struct {
	mu       sync.Mutex
	outcomes []stubOutcome
	calls    [][]domain.Message
	opts     []domain.GenerationOptions
}

type stubOutcome struct {
	reply string
	err   error
}

func (m *stubModel) push(reply string, err error) *stubModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, stubOutcome{reply: reply, err: err})
	return m
}

func (m *stubModel) Generate(ctx context.Context, messages []domain.Message, opts domain.GenerationOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]domain.Message, len(messages))
	copy(cp, messages)
	m.calls = append(m.calls, cp)
	m.opts = append(m.opts, opts)

	if len(m.outcomes) > 0 {
		o := m.outcomes[0]
		m.outcomes = m.outcomes[1:]
		return o.reply, o.err
	}
	return fmt.Sprintf("echo: %s", messages[len(messages)-1].Content), nil
}

func (m *stubModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// blockingModel waits until release is closed or ctx ends.
type blockingModel struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingModel() *blockingModel {
	return &blockingModel{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (m *blockingModel) Generate(ctx context.Context, messages []domain.Message, opts domain.GenerationOptions) (string, error) {
	m.once.Do(func() { close(m.started) })
	select {
	case <-m.release:
		return "late reply", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// recordingDisplay collects notifications.
type recordingDisplay struct {
	mu       sync.Mutex
	appended []domain.Message
	notices  []domain.Notice
}

func (d *recordingDisplay) OnMessageAppended(role domain.Role, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.appended = append(d.appended, domain.Message{Role: role, Content: content})
}

func (d *recordingDisplay) OnError(n domain.Notice) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notices = append(d.notices, n)
}

var errRateLimited = errors.New("429 You exceeded your current quota")
