package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeUploader struct {
	err       error
	calls     int
	destroyed []string
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, publicID string) (*Asset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	_, _ = io.ReadAll(file)
	return &Asset{PublicID: publicID, SecureURL: "https://res.cloudinary.com/demo/image/upload/" + publicID + ".jpg"}, nil
}

func (f *fakeUploader) Destroy(_ context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return f.err
}

func newTestService(up Uploader) *Service {
	s := NewService(up, zap.NewNop().Sugar())
	s.newID = func() string { return "fixed-id" }
	return s
}

func TestUploadNamesAsset(t *testing.T) {
	up := &fakeUploader{}
	s := newTestService(up)

	asset, err := s.Upload(context.Background(), strings.NewReader("jpeg"))
	if err != nil {
		t.Fatal(err)
	}
	if asset.PublicID != "taktivent/fixed-id" {
		t.Errorf("PublicID = %q", asset.PublicID)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	up := &fakeUploader{err: errors.New("503 from upstream")}
	s := newTestService(up)

	for i := 0; i < 5; i++ {
		if _, err := s.Upload(context.Background(), strings.NewReader("x")); err == nil || errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d: got %v, want upstream error", i+1, err)
		}
	}

	_, err := s.Upload(context.Background(), strings.NewReader("x"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if up.calls != 5 {
		t.Errorf("upstream called %d times, want 5", up.calls)
	}
}

func TestPresign(t *testing.T) {
	s := newTestService(&fakeUploader{})
	now := time.Unix(1_700_000_000, 0)

	signed, err := s.Presign(Credentials{CloudName: "demo", APIKey: "key", APISecret: "secret"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if signed.Signature == "" || signed.Timestamp != now.Unix() || signed.PublicID != "taktivent/fixed-id" {
		t.Errorf("unexpected %+v", signed)
	}

	again, _ := s.Presign(Credentials{CloudName: "demo", APIKey: "key", APISecret: "secret"}, now)
	if again.Signature != signed.Signature {
		t.Error("signature not deterministic")
	}

	if _, err := s.Presign(Credentials{}, now); err == nil {
		t.Error("missing secret accepted")
	}
}

func TestPublicIDFromURL(t *testing.T) {
	tests := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1699999999/taktivent/abc.jpg": "taktivent/abc",
		"https://res.cloudinary.com/demo/image/upload/taktivent/abc.png":             "taktivent/abc",
	}
	for in, want := range tests {
		got, err := PublicIDFromURL(in)
		if err != nil || got != want {
			t.Errorf("PublicIDFromURL(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := PublicIDFromURL("https://example.com/nothing.jpg"); err == nil {
		t.Error("non-cloudinary URL accepted")
	}
}
