package shareresolver_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type mockMessenger struct {
	mock.Mock
}

func (m *mockMessenger) Attached() bool {
	return m.Called().Bool(0)
}

func (m *mockMessenger) InvokeMethod(ctx context.Context, method string, arguments interface{}) error {
	return m.Called(ctx, method, arguments).Error(0)
}

type mockContentResolver struct {
	mock.Mock
}

func (m *mockContentResolver) DisplayName(ctx context.Context, uri string) (string, error) {
	args := m.Called(ctx, uri)
	return args.String(0), args.Error(1)
}

func (m *mockContentResolver) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	args := m.Called(ctx, uri)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

// failingReader returns data and then err
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func (r *failingReader) Close() error { return nil }
