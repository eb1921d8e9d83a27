package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Tiliavir/shiftsync/internal/app"
	"github.com/Tiliavir/shiftsync/internal/syncstore"
)

type fakeCollection struct {
	err   error
	calls *int
}

func (f fakeCollection) Upload(context.Context) error {
	*f.calls++
	return f.err
}

func (f fakeCollection) Download(context.Context) error {
	*f.calls++
	return f.err
}

func (f fakeCollection) Status() syncstore.Status { return syncstore.Status{} }

func upload(ctx context.Context, c app.Collection) error { return c.Upload(ctx) }

func TestTransferAll(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCode  int
		wantCalls int
		wantOut   string
		wantErr   string
	}{
		{
			name:      "all succeed",
			errs:      []error{nil, nil},
			wantCode:  0,
			wantCalls: 2,
			wantOut:   "Uploaded jobs.\nUploaded shifts.\n",
		},
		{
			name:      "not signed in stops at first collection",
			errs:      []error{syncstore.ErrNotAuthenticated, nil},
			wantCode:  1,
			wantCalls: 1,
			wantErr:   "shiftsync login",
		},
		{
			name:      "not configured stops at first collection",
			errs:      []error{syncstore.ErrNotConfigured, nil},
			wantCode:  1,
			wantCalls: 1,
			wantErr:   "remote.url",
		},
		{
			name:      "missing remote data keeps going",
			errs:      []error{syncstore.ErrNoRemoteData, nil},
			wantCode:  1,
			wantCalls: 2,
			wantOut:   "Uploaded shifts.\n",
			wantErr:   "jobs: nothing uploaded yet",
		},
		{
			name:      "i/o error wins over missing data",
			errs:      []error{errors.New("connection reset"), syncstore.ErrNoRemoteData},
			wantCode:  2,
			wantCalls: 2,
			wantErr:   "jobs: connection reset",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			names := []string{"jobs", "shifts"}
			var collections []app.Collection
			for i, err := range tt.errs {
				collections = append(collections, app.Collection{Name: names[i], Transferable: fakeCollection{err: err, calls: &calls}})
			}

			var stdout, stderr bytes.Buffer
			code := transferAll(context.Background(), collections, "Uploaded", upload, &stdout, &stderr)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if stdout.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
			if tt.wantErr != "" && !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantErr)
			}
		})
	}
}
