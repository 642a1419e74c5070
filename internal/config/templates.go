package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "profile":
		return profileTemplate, nil
	case "client":
		return clientTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const profileTemplate = `host = "snpp.example.net"
port = 444
login = ""
password = ""

[message]
text = "The server is down"
caller_id = "ops"
subject = ""
# hold_until = "0012311200"
# level = 3

[[recipients]]
id = "5551212"
pin = ""

[[recipients]]
id = "4773822"
pin = "9999"
send_now = true
`

const clientTemplate = `host = "snpp.example.net"
port = 444
connect_timeout = "5s"
debug = false
`
