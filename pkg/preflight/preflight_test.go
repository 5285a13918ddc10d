package preflight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	pkgerrors "github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/runner"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		tool    Tool
		stdout  string
		stderr  string
		runErr  error
		wantErr string
	}{
		{
			name:   "available, no minimum",
			tool:   Tool{Name: "getfacl"},
			stdout: "getfacl 2.3.1\n",
		},
		{
			name:   "meets minimum",
			tool:   Tool{Name: "getfacl", MinVersion: "2.3.0"},
			stdout: "getfacl 2.3.2\n",
		},
		{
			name:    "below minimum",
			tool:    Tool{Name: "getfacl", MinVersion: "2.3.0"},
			stdout:  "getfacl 2.2.53\n",
			wantErr: "older than required",
		},
		{
			name:   "version on stderr",
			tool:   Tool{Name: "nfs4_setfacl", MinVersion: "0.3.0"},
			stderr: "nfs4_setfacl 0.3.3\n",
		},
		{
			name:    "tool missing",
			tool:    Tool{Name: "getfacl"},
			runErr:  errors.New("executable file not found"),
			wantErr: "not available",
		},
		{
			name:    "unparsable version",
			tool:    Tool{Name: "getfacl", MinVersion: "2.3.0"},
			stdout:  "no digits here\n",
			wantErr: "could not determine version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mock := runner.NewMockRunner(ctrl)
			mock.EXPECT().
				Run(gomock.Any(), tt.tool.Name, "--version").
				Return(tt.stdout, tt.stderr, tt.runErr)

			err := Check(context.Background(), mock, []Tool{tt.tool})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, pkgerrors.ErrPreflight)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckStopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := runner.NewMockRunner(ctrl)
	mock.EXPECT().
		Run(gomock.Any(), "getfacl", "--version").
		Return("", "", errors.New("not found"))
	// nfs4_setfacl must not be probed after getfacl fails.

	err := Check(context.Background(), mock, []Tool{{Name: "getfacl"}, {Name: "nfs4_setfacl"}})
	assert.ErrorIs(t, err, pkgerrors.ErrPreflight)
}
