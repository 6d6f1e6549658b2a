package retry

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errLocked = errors.New("locked")
	errFatal  = errors.New("fatal")
)

// lockClassifier treats errLocked as transient.
type lockClassifier struct{}

func (lockClassifier) IsTransient(err error) bool { return errors.Is(err, errLocked) }

// flakyOperation fails with transientErr until the failUntil-th invocation.
type flakyOperation struct {
	invocations  int
	failUntil    int
	transientErr error
}

func (f *flakyOperation) execute(ctx context.Context) error {
	f.invocations++
	if f.invocations < f.failUntil {
		if f.transientErr != nil {
			return f.transientErr
		}
		return errLocked
	}
	return nil
}

func fastBackoff(maxAttempts int) *ExponentialBackoff {
	return NewExponentialBackoff(maxAttempts, WithInitialDelay(time.Millisecond), WithJitter(0))
}

func TestNewExecutor_NilArgs(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fastBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(lockClassifier{}, nil) })
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	op := &flakyOperation{failUntil: 1}

	err := NewExecutor(lockClassifier{}, fastBackoff(3)).Execute(context.Background(), op.execute)
	require.NoError(t, err)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_SuccessAfterRetries(t *testing.T) {
	op := &flakyOperation{failUntil: 4}

	err := NewExecutor(lockClassifier{}, fastBackoff(5)).Execute(context.Background(), op.execute)
	require.NoError(t, err)
	assert.Equal(t, 4, op.invocations)
}

func TestExecutor_FatalErrorNoRetry(t *testing.T) {
	op := &flakyOperation{failUntil: 10, transientErr: errFatal}

	err := NewExecutor(lockClassifier{}, fastBackoff(5)).Execute(context.Background(), op.execute)
	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_ExhaustedRetries(t *testing.T) {
	op := &flakyOperation{failUntil: 999}

	err := NewExecutor(lockClassifier{}, fastBackoff(3)).Execute(context.Background(), op.execute)
	assert.ErrorIs(t, err, errLocked)
	// initial attempt + 3 retries
	assert.Equal(t, 4, op.invocations)
}

func TestExecutor_NoRetriesStrategy(t *testing.T) {
	op := &flakyOperation{failUntil: 999}

	err := NewExecutor(lockClassifier{}, fastBackoff(0)).Execute(context.Background(), op.execute)
	assert.ErrorIs(t, err, errLocked)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_TransientThenFatal(t *testing.T) {
	invocations := 0
	operation := func(ctx context.Context) error {
		invocations++
		if invocations < 3 {
			return errLocked
		}
		return errFatal
	}

	err := NewExecutor(lockClassifier{}, fastBackoff(5)).Execute(context.Background(), operation)
	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 3, invocations)
}

func TestExecutor_ContextCancellation(t *testing.T) {
	strategy := NewExponentialBackoff(10, WithInitialDelay(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	op := &flakyOperation{failUntil: 999}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := NewExecutor(lockClassifier{}, strategy).Execute(ctx, op.execute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, op.invocations)
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	var attempts []int
	var delays []time.Duration

	executor := NewExecutor(lockClassifier{}, fastBackoff(3)).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		assert.ErrorIs(t, err, errLocked)
		attempts = append(attempts, attempt)
		delays = append(delays, delay)
	})

	op := &flakyOperation{failUntil: 4}
	require.NoError(t, executor.Execute(context.Background(), op.execute))

	assert.Equal(t, []int{0, 1, 2}, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
}

func TestExecutor_WithOnRetryDoesNotMutate(t *testing.T) {
	base := NewExecutor(lockClassifier{}, fastBackoff(1))
	_ = base.WithOnRetry(func(int, error, time.Duration) {})
	assert.Nil(t, base.onRetry)
}

func TestExecutor_RenameWithFileSystemClassifier(t *testing.T) {
	dir := t.TempDir()
	src := dir + "/a.tmp"
	dst := dir + "/a.zip"
	require.NoError(t, os.WriteFile(src, []byte("zip"), 0o644))

	executor := NewExecutor(NewFileSystemErrorClassifier(), NewRenameBackoff(WithJitter(0)))
	require.NoError(t, executor.Execute(context.Background(), func(ctx context.Context) error {
		return os.Rename(src, dst)
	}))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "zip", string(data))

	// A missing source is fatal and returned without retrying.
	calls := 0
	err = executor.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return os.Rename(src, dst)
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, calls)
}
