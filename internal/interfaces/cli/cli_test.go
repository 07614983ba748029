package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molrad/internal/application/filters"
	"github.com/turtacn/molrad/internal/config"
	"github.com/turtacn/molrad/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/molrad/internal/interfaces/http"
	"github.com/turtacn/molrad/internal/interfaces/http/handlers"
	"github.com/turtacn/molrad/pkg/client"
	"github.com/turtacn/molrad/pkg/errors"
)

const twoLevelYAML = `
radial:
  num_cg_levels: 2
  max_sh: [1, 2]
  num_channels: [3]
  basis_set: [1, 1]
  mix: true
  dtype: double
server:
  mode: test
metrics:
  enabled: true
log:
  level: error
  format: console
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "molrad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "molrad", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"describe", "eval", "serve", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
	for _, flag := range []string{"config", "log-level", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestDescribe_JSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), twoLevelYAML)
	out, err := execute(t, "describe", "--config", path, "-o", "json")
	require.NoError(t, err)

	var d filters.Description
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 2, d.NumLevels)
	assert.Equal(t, "double", d.Precision)
	assert.Equal(t, [][]int{{3, 3}, {3, 3, 3}}, d.RadialTypes)
}

func TestDescribe_TextAndTable(t *testing.T) {
	path := writeConfig(t, t.TempDir(), twoLevelYAML)

	out, err := execute(t, "describe", "-c", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "RadialFilterBank "), out)
	assert.Contains(t, out, "level 1: max_sh=2")

	out, err = execute(t, "describe", "-c", path, "-o", "table")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "LEVEL"))
	assert.Contains(t, lines[3], "(1, 1)")
	assert.Contains(t, lines[3], "[3 3 3]")
}

func TestEval(t *testing.T) {
	path := writeConfig(t, t.TempDir(), twoLevelYAML)

	out, err := execute(t, "eval", "-c", path, "-o", "json",
		"--distances", "0.5,1,0,2", "--shape", "2,2")
	require.NoError(t, err)
	var res filters.EvaluateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4, res.Pairs)
	assert.Equal(t, 1, res.Masked)
	require.Len(t, res.Levels, 2)
	assert.Equal(t, []int{2, 2, 3, 2}, res.Levels[0].Orders[1].Shape)

	out, err = execute(t, "eval", "-c", path, "--distances", "1,2", "--mask", "true,false")
	require.NoError(t, err)
	assert.Contains(t, out, "2 pairs, 1 masked")
	assert.Contains(t, out, "level 1 order 2: shape=[2 3 2]")
}

func TestEval_Errors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), twoLevelYAML)

	_, err := execute(t, "eval", "-c", path)
	assert.Error(t, err)

	_, err = execute(t, "eval", "-c", path, "--distances", "1,2,3", "--mask", "true,false")
	require.Error(t, err)
	assert.True(t, errors.IsShapeMismatchError(err))
}

func TestRoot_RejectsBadInputs(t *testing.T) {
	_, err := execute(t, "describe", "-o", "yaml")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = execute(t, "describe", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, t.TempDir(), "radial:\n  device: gpu\n")
	_, err = execute(t, "describe", "-c", path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "-o", "json")
	require.NoError(t, err)
	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestFormatTable(t *testing.T) {
	got := FormatTable([]string{"A", "LONG"}, [][]string{{"xyz", "1"}, {"q"}})
	assert.Equal(t, "A    LONG\n---  ----\nxyz  1   \nq        \n", got)
	assert.Empty(t, FormatTable(nil, nil))
}

func TestRemote_DescribeAndEval(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, t.TempDir(), twoLevelYAML))
	require.NoError(t, err)
	bank, err := filters.NewBankFromConfig(cfg.Radial, nil, nil)
	require.NoError(t, err)
	svc, err := filters.NewService(bank, 0, nil)
	require.NoError(t, err)
	server := httptest.NewServer(httpapi.NewRouter(httpapi.RouterConfig{
		FilterHandler: handlers.NewFilterHandler(svc, 1),
	}))
	defer server.Close()

	out, err := execute(t, "describe", "--server", server.URL, "-o", "json")
	require.NoError(t, err)
	var d filters.Description
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, bank.ID(), d.BankID)

	out, err = execute(t, "describe", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "RadialFilterBank "+bank.ID()+" (2 levels, double)")

	out, err = execute(t, "eval", "--server", server.URL, "--distances", "1,2", "-o", "table")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "LEVEL"))
	assert.Equal(t, 2+5, strings.Count(out, "\n"))

	_, err = execute(t, "eval", "--server", server.URL, "--distances", "1,2,3", "--mask", "true,false")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "RAD_002", apiErr.Code)
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if v != nil {
		require.NoError(t, json.Unmarshal(body, v))
	}
	return resp.StatusCode
}

func TestRunServe_ServesAndReloads(t *testing.T) {
	path := writeConfig(t, t.TempDir(), twoLevelYAML)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := fmt.Sprintf("http://%s", ln.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, &CLIContext{
			Config:     cfg,
			ConfigPath: path,
			Logger:     logging.NewNopLogger(),
		}, &serveOptions{rateLimit: 100, burst: 100, batchConcurrency: 2, watch: true}, ln)
	}()

	var before filters.Description
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/v1/filters", &before))
	assert.Equal(t, 2, before.NumLevels)
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/readyz", nil))
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/metrics", nil))

	writeConfig(t, filepath.Dir(path), strings.Replace(twoLevelYAML, "num_cg_levels: 2\n  max_sh: [1, 2]", "num_cg_levels: 1\n  max_sh: [2]", 1))
	require.Eventually(t, func() bool {
		var after filters.Description
		getJSON(t, base+"/v1/filters", &after)
		return after.NumLevels == 1 && after.BankID != before.BankID
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

//Personal.AI order the ending
