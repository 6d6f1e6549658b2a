package build

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmo/mmopack/internal/logging"
	"github.com/mmo/mmopack/pkg/release"
)

func newTestBuilder(env map[string]string) *ExecBuilder {
	b := NewExecBuilder(logging.NewNullLogger())
	b.getenv = func(name string) string { return env[name] }
	return b
}

func TestNewExecBuilder_NilLogger(t *testing.T) {
	assert.Panics(t, func() { NewExecBuilder(nil) })
}

func TestCommand_DefaultBuild(t *testing.T) {
	cfg := release.DefaultConfig("/mmo")

	args, err := newTestBuilder(nil).Command(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Devenv", cfg.Resolve("mmo.sln"), "/build", "release"}, args)
}

func TestCommand_Expansion(t *testing.T) {
	tests := []struct {
		name    string
		command string
		vars    map[string]string
		env     map[string]string
		want    []string
	}{
		{
			name:    "quoted path with spaces",
			command: `devenv "C:/Program Files/game.sln" /build release`,
			want:    []string{"devenv", "C:/Program Files/game.sln", "/build", "release"},
		},
		{
			name:    "config variable",
			command: `msbuild /p:Platform=$PLATFORM`,
			vars:    map[string]string{"PLATFORM": "x64"},
			want:    []string{"msbuild", "/p:Platform=x64"},
		},
		{
			name:    "environment fallback",
			command: `${DEVENV} /build release`,
			env:     map[string]string{"DEVENV": "devenv.com"},
			want:    []string{"devenv.com", "/build", "release"},
		},
		{
			name:    "config variable wins over environment",
			command: `echo $WHO`,
			vars:    map[string]string{"WHO": "config"},
			env:     map[string]string{"WHO": "env"},
			want:    []string{"echo", "config"},
		},
		{
			name:    "variables may override built-ins",
			command: `build $MMOPACK_CONFIGURATION`,
			vars:    map[string]string{"MMOPACK_CONFIGURATION": "debug"},
			want:    []string{"build", "debug"},
		},
		{
			name:    "single quotes suppress expansion",
			command: `echo '$HOME'`,
			env:     map[string]string{"HOME": "/root"},
			want:    []string{"echo", "$HOME"},
		},
		{
			name:    "unset variable disappears",
			command: `make $UNSET all`,
			want:    []string{"make", "all"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := release.DefaultConfig("/mmo")
			cfg.Build.Command = tt.command
			cfg.Variables = tt.vars

			args, err := newTestBuilder(tt.env).Command(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}
}

func TestCommand_Invalid(t *testing.T) {
	for _, command := range []string{`devenv "unterminated`, `$EMPTY`, ``} {
		t.Run(command, func(t *testing.T) {
			cfg := release.DefaultConfig("/mmo")
			cfg.Build.Command = command

			_, err := newTestBuilder(nil).Command(cfg)
			assert.ErrorIs(t, err, release.ErrInvalidConfig)
		})
	}
}

func TestBuild_Skip(t *testing.T) {
	cfg := release.DefaultConfig(t.TempDir())
	cfg.Build.Skip = true
	cfg.Build.Command = "this-tool-does-not-exist"

	assert.NoError(t, newTestBuilder(nil).Build(context.Background(), cfg))
}

func TestTailBuffer(t *testing.T) {
	tail := newTailBuffer(8)
	_, _ = tail.Write([]byte("0123"))
	_, _ = tail.Write([]byte("456789"))
	assert.Equal(t, "23456789", tail.String())

	_, _ = tail.Write([]byte("abcdefghijkl\n"))
	assert.Equal(t, "fghijkl", tail.String())
}
