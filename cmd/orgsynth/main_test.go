// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/orgsynth/internal/entity"
	"github.com/pdiddy/orgsynth/internal/generate"
	"github.com/pdiddy/orgsynth/internal/session"
	"github.com/pdiddy/orgsynth/internal/store"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// newTestApp returns an app whose session is already set up, so command
// trees skip config loading. The remote backend is the local generator.
func newTestApp(t *testing.T, interactive bool) (*app, *bytes.Buffer) {
	t.Helper()
	return newTestAppWithRemote(t, interactive, func(context.Context, types.BackendConfig, *zap.Logger) (generate.Backend, error) {
		return generate.NewLocalBackend(7), nil
	})
}

func newTestAppWithRemote(t *testing.T, interactive bool, remote session.RemoteFactory) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	log := zaptest.NewLogger(t)
	a := &app{out: &out, errOut: io.Discard, log: log}
	a.sess = session.New(session.Options{
		Out:         &out,
		Log:         log,
		Seed:        2026,
		Interactive: interactive,
		Remote:      remote,
	})
	return a, &out
}

func mustRun(t *testing.T, a *app, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, a.runLine(context.Background(), line), line)
	}
}

// --- tokenize ---

func TestTokenize(t *testing.T) {
	tests := []struct {
		line string
		want []string
		err  bool
	}{
		{line: "new company", want: []string{"new", "company"}},
		{line: "  new   company  ", want: []string{"new", "company"}},
		{line: "", want: nil},
		{line: "new company location=France", want: []string{"new", "company", "--location=France"}},
		{line: `new employee name="Ann Lee" unit=Sales`, want: []string{"new", "employee", "--name=Ann Lee", "--unit=Sales"}},
		{line: `new employee --name "Ann Lee"`, want: []string{"new", "employee", "--name", "Ann Lee"}},
		{line: "new email --id=3 --fast", want: []string{"new", "email", "--id=3", "--fast"}},
		{line: "new email from=? to=?", want: []string{"new", "email", "--from=?", "--to=?"}},
		{line: `new email prompt="a=b and c"`, want: []string{"new", "email", "--prompt=a=b and c"}},
		{line: `new email "prompt=x"`, want: []string{"new", "email", "prompt=x"}},
		{line: "new email prompt=x=y", want: []string{"new", "email", "--prompt=x=y"}},
		{line: `set key=""`, want: []string{"set", "--key="}},
		{line: `show ""`, want: []string{"show", ""}},
		{line: `new company name="Acme`, err: true},
		{line: "new email --prompt budget=approved", want: []string{"new", "email", "--prompt", "budget=approved"}},
		{line: "new company --name a=b location=Peru", want: []string{"new", "company", "--name", "a=b", "--location=Peru"}},
		{line: "new company --fast location=France", want: []string{"new", "company", "--fast", "--location=France"}},
		{line: "new email --prompt=x to=4", want: []string{"new", "email", "--prompt=x", "--to=4"}},
		{line: `new email "--prompt" to=4`, want: []string{"new", "email", "--prompt", "--to=4"}},
	}
	takes := takesValue(newRootCmd(&app{out: io.Discard, errOut: io.Discard}))
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := tokenize(tt.line, takes)
			if tt.err {
				assert.ErrorContains(t, err, "unterminated quote")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTakesValue(t *testing.T) {
	takes := takesValue(newRootCmd(&app{out: io.Discard, errOut: io.Discard}))
	for _, name := range []string{"prompt", "name", "id", "multiply", "config", "file"} {
		assert.True(t, takes(name), name)
	}
	for _, name := range []string{"fast", "attachment", "verbose", "", "nosuchflag"} {
		assert.False(t, takes(name), name)
	}
}

// --- command lines ---

func TestRunLine_Generation(t *testing.T) {
	a, out := newTestApp(t, true)
	mustRun(t, a,
		"new company location=Germany --fast",
		"new product --fast",
		"new employee --fast --multiply 2",
		"new email --fast from=3 to=4 attachment=true",
	)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Company: 1 - "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Product: 2 - "), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Employee: 3 - "), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Employee: 4 - "), lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "Email: 5 - "), lines[4])

	c, err := store.LastOfType[*entity.Company](a.sess.Store)
	require.NoError(t, err)
	assert.Equal(t, "Germany", c.HomeLocation())

	m, err := store.LastOfType[*entity.Email](a.sess.Store)
	require.NoError(t, err)
	assert.NotEmpty(t, m.Attachment)
}

func TestRunLine_QuotedName(t *testing.T) {
	a, _ := newTestApp(t, true)
	mustRun(t, a,
		`new company name="Acme Widgets" fast=true`,
		`new employee name="Ann Lee" --fast`,
	)

	c, err := store.LastOfType[*entity.Company](a.sess.Store)
	require.NoError(t, err)
	assert.Equal(t, "Acme Widgets", c.Name)

	e, err := store.LastOfType[*entity.Employee](a.sess.Store)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", e.FullName())
}

func TestRunLine_FlagValueContainingEquals(t *testing.T) {
	a, _ := newTestApp(t, true)
	mustRun(t, a,
		"new company --fast --name a=b",
		"new company --name x=y --fast location=Peru",
	)
	companies := store.All[*entity.Company](a.sess.Store)
	require.Len(t, companies, 2)
	assert.Equal(t, "a=b", companies[0].Name)
	assert.Equal(t, "x=y", companies[1].Name)
	assert.Equal(t, "Peru", companies[1].HomeLocation())
}

func TestRunLine_FlagsDoNotLeakBetweenLines(t *testing.T) {
	a, _ := newTestApp(t, true)
	mustRun(t, a,
		"new company --fast --name Solo",
		"new company --fast",
	)
	companies := store.All[*entity.Company](a.sess.Store)
	require.Len(t, companies, 2)
	assert.Equal(t, "Solo", companies[0].Name)
	assert.NotEqual(t, "Solo", companies[1].Name)
}

func TestRunLine_Errors(t *testing.T) {
	a, _ := newTestApp(t, true)
	ctx := context.Background()

	assert.Error(t, a.runLine(ctx, "frobnicate"))
	assert.Error(t, a.runLine(ctx, `new company name="open`))

	err := a.runLine(ctx, "new employee --fast")
	var nf *store.NotFoundError
	assert.ErrorAs(t, err, &nf, "no company to attach the employee to")

	mustRun(t, a, "new company --fast")
	err = a.runLine(ctx, "new employee --fast unit=Nowhere")
	var ve *entity.ValidationError
	assert.ErrorAs(t, err, &ve)

	assert.NoError(t, a.runLine(ctx, "# just a comment"))
}

func TestRunLine_ReplyWithID(t *testing.T) {
	a, _ := newTestApp(t, true)
	mustRun(t, a,
		"new company --fast",
		"new employee --fast name=\"Ann Lee\"",
		"new employee --fast name=\"Bo Chen\"",
		"new email --fast from=2 to=3",
		"new email --fast id=4",
	)

	first, err := store.Get[*entity.Email](a.sess.Store, 4)
	require.NoError(t, err)
	reply, err := store.Get[*entity.Email](a.sess.Store, 5)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", first.From.FullName())
	assert.Same(t, first.To, reply.From)
	assert.Same(t, first.From, reply.To)
}

func TestUseShowAndVersion(t *testing.T) {
	a, out := newTestApp(t, false)
	mustRun(t, a, "new company --fast location=Japan")
	out.Reset()

	mustRun(t, a, "use id=1")
	assert.Equal(t, "Using ID 1\n", out.String())
	out.Reset()

	mustRun(t, a, "show --id 1")
	assert.Contains(t, out.String(), `"Domain"`)
	out.Reset()

	mustRun(t, a, "show company")
	assert.Contains(t, out.String(), `"OperatingLocations"`)
	out.Reset()

	mustRun(t, a, "version")
	assert.Equal(t, fmt.Sprintf("orgsynth %s\n", version), out.String())

	assert.Error(t, a.runLine(context.Background(), "use"), "use needs --id")
	assert.Error(t, a.runLine(context.Background(), "show product"))
}

func TestSet(t *testing.T) {
	a, _ := newTestApp(t, true)
	mustRun(t, a, `set provider=OpenAI deployment="gpt-4o-mini" uri=https://example.test/v1`)

	cfg := a.sess.Config()
	assert.Equal(t, types.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Deployment)
	assert.Equal(t, "https://example.test/v1", cfg.URI)
	assert.False(t, viper.IsSet("backend.provider"), "set changes the session only")
}

func TestSaveAndLoadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "org.yaml")

	a, _ := newTestApp(t, true)
	mustRun(t, a,
		"new company --fast",
		"new employee --fast multiply=2",
		fmt.Sprintf(`save file="%s"`, path),
	)
	_, err := os.Stat(path)
	require.NoError(t, err)

	b, out := newTestApp(t, true)
	mustRun(t, b, fmt.Sprintf(`load file="%s"`, path))
	assert.Contains(t, out.String(), "Company: 1 - ")
	assert.Len(t, store.All[*entity.Employee](b.sess.Store), 2)
}

// --- script and loop ---

func TestScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "build.org")
	require.NoError(t, os.WriteFile(script, []byte(`# two companies and some staff

new company location=France --fast
new employee --fast unit=NoSuchUnit
new employee --fast multiply=2
   # indented comment
new company location=Spain --fast
`), 0o644))

	a, out := newTestApp(t, true)
	mustRun(t, a, fmt.Sprintf(`script file="%s"`, script))

	assert.Contains(t, out.String(), "Error: ", "the failing line is reported")
	assert.Len(t, store.All[*entity.Company](a.sess.Store), 2, "the script carries on after a failure")
	assert.Len(t, store.All[*entity.Employee](a.sess.Store), 2)
	assert.False(t, a.inLoop, "loop state is restored")

	err := a.runLine(context.Background(), fmt.Sprintf(`script file="%s"`, filepath.Join(dir, "missing")))
	assert.ErrorContains(t, err, "could not load script")
}

// linesFrom returns a readline-style source that yields lines then io.EOF.
func linesFrom(lines ...string) func() (string, error) {
	return func() (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		l := lines[0]
		lines = lines[1:]
		return l, nil
	}
}

func TestLoop(t *testing.T) {
	a, out := newTestApp(t, true)
	a.inLoop = true

	err := a.loop(context.Background(), linesFrom(
		"",
		"new company --fast",
		"bogus",
		"new product --fast",
		"QUIT",
		"new product --fast",
	))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Error: ")
	assert.Len(t, store.All[*entity.Product](a.sess.Store), 1, "nothing runs after quit")
}

func TestLoop_EndOfInput(t *testing.T) {
	a, _ := newTestApp(t, true)
	a.inLoop = true
	require.NoError(t, a.loop(context.Background(), linesFrom("new company --fast")))
	assert.Len(t, store.All[*entity.Company](a.sess.Store), 1)
}

func TestLoop_BareFlagsPrintHelp(t *testing.T) {
	a, out := newTestApp(t, true)
	a.inLoop = true
	require.NoError(t, a.loop(context.Background(), linesFrom("--verbose")))
	assert.Contains(t, out.String(), "Available Commands:")
}
