package cmd

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

type remote struct {
	host    string
	port    string
	keyPath string
	unit    string
}

// RemoteCmd manages the deployed pathfinder service over SSH.
func RemoteCmd() *cobra.Command {
	r := &remote{}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Inspect and restart the deployed service over SSH",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if r.host == "" {
				return fmt.Errorf("--host is required or set SSH_HOST env")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&r.host, "host", os.Getenv("SSH_HOST"), "SSH host (user@host) or set SSH_HOST env")
	cmd.PersistentFlags().StringVar(&r.port, "port", "22", "SSH port")
	cmd.PersistentFlags().StringVar(&r.keyPath, "key", "", "Path to SSH private key (default: ~/.ssh/id_ed25519)")
	cmd.PersistentFlags().StringVar(&r.unit, "unit", "pathfinder", "systemd unit of the server")

	var lines int
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent server logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.print(fmt.Sprintf("journalctl -u %s -n %d --no-pager", r.unit, lines))
		},
	}
	logsCmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of log lines")

	var appPort int
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Call /healthz on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.print("curl -fsS http://127.0.0.1:" + strconv.Itoa(appPort) + "/healthz")
		},
	}
	healthCmd.Flags().IntVar(&appPort, "app-port", 8090, "port the server listens on")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the state of the service",
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := r.run("systemctl show " + r.unit + " --no-pager --property=ActiveState,SubState,ActiveEnterTimestamp,NRestarts")
				if err != nil {
					return err
				}
				props := parseProperties(out)
				keys := make([]string, 0, len(props))
				for key := range props {
					keys = append(keys, key)
				}
				slices.Sort(keys)
				for _, key := range keys {
					fmt.Printf("%-22s %s\n", key, props[key])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "restart",
			Short: "Restart the service",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Printf("Restarting %s...\n", r.unit)
				return r.print("sudo systemctl restart " + r.unit + " && systemctl is-active " + r.unit)
			},
		},
		logsCmd,
		healthCmd,
	)
	return cmd
}

func (r *remote) print(command string) error {
	out, err := r.run(command)
	fmt.Print(out)
	return err
}

func (r *remote) run(command string) (string, error) {
	client, err := sshConnect(r.host, r.port, r.keyPath)
	if err != nil {
		return "", fmt.Errorf("ssh connect: %w", err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("%q: %w", command, err)
	}
	return string(output), nil
}

// parseProperties reads the Key=Value lines printed by systemctl show.
func parseProperties(out string) map[string]string {
	props := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if ok && key != "" {
			props[key] = value
		}
	}
	return props
}

func sshConnect(host, port, keyPath string) (*ssh.Client, error) {
	authMethods, err := getAuthMethods(keyPath)
	if err != nil {
		return nil, err
	}

	hostKeyCallback, err := hostKeyCallback()
	if err != nil {
		return nil, err
	}

	config := &ssh.ClientConfig{
		User:            parseUser(host),
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
	}

	addr := net.JoinHostPort(parseHost(host), port)
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return client, nil
}

// hostKeyCallback verifies hosts against ~/.ssh/known_hosts.
func hostKeyCallback() (ssh.HostKeyCallback, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	cb, err := knownhosts.New(filepath.Join(home, ".ssh", "known_hosts"))
	if err != nil {
		return nil, fmt.Errorf("load known_hosts (ssh to the host once first): %w", err)
	}
	return cb, nil
}

func getAuthMethods(keyPath string) ([]ssh.AuthMethod, error) {
	// Try ssh-agent first
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" && keyPath == "" {
		conn, err := net.Dial("unix", sock)
		if err == nil {
			agentClient := agent.NewClient(conn)
			keys, err := agentClient.List()
			if err == nil && len(keys) > 0 {
				return []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)}, nil
			}
			conn.Close()
		}
	}

	// Fall back to key file
	var key []byte
	var err error

	if keyPath != "" {
		key, err = os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("read key %s: %w", keyPath, err)
		}
	} else {
		key, err = findSSHKey()
		if err != nil {
			return nil, err
		}
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse key (run ssh-add for passphrase-protected keys): %w", err)
	}

	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}

func findSSHKey() ([]byte, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}

	keyNames := []string{"id_ed25519", "id_rsa", "id_ecdsa"}
	for _, name := range keyNames {
		key, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err == nil {
			return key, nil
		}
	}

	return nil, fmt.Errorf("no SSH key found in ~/.ssh (tried: %v)", keyNames)
}

func parseUser(host string) string {
	if user, _, ok := strings.Cut(host, "@"); ok {
		return user
	}
	return "root"
}

func parseHost(host string) string {
	if _, h, ok := strings.Cut(host, "@"); ok {
		return h
	}
	return host
}
