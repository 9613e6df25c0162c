package ssh

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/kevinburke/ssh_config"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

const Alias = "runpod"

const aliasBlockTemplate = `
Host {{ .Alias }}
  User {{ .User }}
  StrictHostKeyChecking no
  UserKnownHostsFile /dev/null
`

const connectionFileTemplate = `HostName {{ .Host }}
Port {{ .Port }}
`

type aliasBlock struct {
	Alias string
	User  string
}

// MakeAliasBlock renders the Host block appended to the user's ssh config.
// It starts with a blank line so it never runs into preceding content.
func MakeAliasBlock() (string, error) {
	return render("alias", aliasBlockTemplate, aliasBlock{Alias: Alias, User: "root"})
}

// MakeConnectionFile renders the two-line per-pod connection file.
func MakeConnectionFile(endpoint entity.Endpoint) (string, error) {
	return render("connection", connectionFileTemplate, endpoint)
}

func render(name string, text string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	buf := &bytes.Buffer{}
	err = tmpl.Execute(buf, data)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return buf.String(), nil
}

func MakeIncludeLine(includePattern string) string {
	return fmt.Sprintf("Include %s\n", includePattern)
}

// EnsureIncludeAndAlias returns conf with includeLine prepended and aliasBlock
// appended when either is missing. The alias counts as present when any Host
// line lists it as one of its patterns, so "Host runpod gpu" matches and
// "Host runpod-old" does not. The bool reports whether the result differs from
// conf.
func EnsureIncludeAndAlias(conf string, includeLine string, aliasBlock string) (string, bool) {
	hasInclude := hasLine(conf, includeLine)
	hasAlias := hasHostPattern(conf, Alias)
	if hasInclude && hasAlias {
		return conf, false
	}

	newConf := conf
	if !hasInclude {
		newConf = includeLine + newConf
	}
	if !hasAlias {
		newConf += aliasBlock
	}
	return newConf, true
}

func hasLine(conf string, line string) bool {
	want := strings.TrimSpace(line)
	if want == "" {
		return false
	}
	for _, l := range strings.Split(conf, "\n") {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}

// hasHostPattern scans Host lines directly. ssh_config.Decode would also
// expand Include directives from disk.
func hasHostPattern(conf string, pattern string) bool {
	for _, l := range strings.Split(conf, "\n") {
		fields := strings.Fields(strings.Replace(l, "=", " ", 1))
		if len(fields) < 2 || !strings.EqualFold(fields[0], "Host") {
			continue
		}
		for _, p := range fields[1:] {
			if strings.HasPrefix(p, "#") {
				break
			}
			if strings.Trim(p, `"`) == pattern {
				return true
			}
		}
	}
	return false
}

// ParseConnectionFile reads the endpoint out of an existing connection file.
// Empty or unparsable content yields a zero endpoint and false.
func ParseConnectionFile(contents string) (entity.Endpoint, bool) {
	if strings.TrimSpace(contents) == "" {
		return entity.Endpoint{}, false
	}
	cfg, err := ssh_config.Decode(strings.NewReader(contents))
	if err != nil {
		return entity.Endpoint{}, false
	}
	host, err := cfg.Get(Alias, "HostName")
	if err != nil || host == "" {
		return entity.Endpoint{}, false
	}
	portStr, err := cfg.Get(Alias, "Port")
	if err != nil {
		return entity.Endpoint{}, false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return entity.Endpoint{}, false
	}
	return entity.Endpoint{Host: host, Port: port}, true
}
