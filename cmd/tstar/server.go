package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskstar/taskstar/internal/client"
	"github.com/taskstar/taskstar/internal/config"
)

// serverBinary is the name of the server executable.
const serverBinary = "taskstar"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the taskstar server",
	Long:  `Commands for starting, stopping, and checking the status of the taskstar server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the taskstar server",
	Long:  `Start the taskstar server as a background process.`,
	Run: func(cmd *cobra.Command, args []string) {
		bind, _ := cmd.Flags().GetString("bind")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		pidPath, err := pidFilePath()
		if err != nil {
			handleError(err)
		}

		pid, err := runServerStart(pidPath, bind, dataDir)
		if err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Server started on %s (PID: %d)", bind, pid), jsonOutput)
	},
}

var serverStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the taskstar server",
	Long:  `Stop the running taskstar server.`,
	Run: func(cmd *cobra.Command, args []string) {
		pidPath, err := pidFilePath()
		if err != nil {
			handleError(err)
		}

		pid, err := runServerStop(pidPath)
		if err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Server stopped (PID: %d)", pid), jsonOutput)
	},
}

var serverStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check taskstar server status",
	Long:  `Check if the taskstar server is running.`,
	Run: func(cmd *cobra.Command, args []string) {
		pidPath, err := pidFilePath()
		if err != nil {
			handleError(err)
		}

		pid, err := serverPID(pidPath)
		if err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Server is running (PID: %d)", pid), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverStopCmd)
	serverCmd.AddCommand(serverStatusCmd)

	defaultBind := fmt.Sprintf("%s:%d", config.DefaultServerHost, config.DefaultServerPort)
	serverStartCmd.Flags().String("bind", defaultBind, "Address to bind the server to")
	serverStartCmd.Flags().String("data-dir", "", "Directory for project databases (default ~/.taskstar/projects)")
}

// runServerStart launches the server binary detached from the terminal and
// records its PID.
func runServerStart(pidPath, bind, dataDir string) (int, error) {
	if pid, err := readPIDFile(pidPath); err == nil && isProcessRunning(pid) {
		return 0, fmt.Errorf("server is already running (PID: %d)", pid)
	}

	binPath, err := findServerBinary()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(binPath)
	cmd.Env = append(os.Environ(), config.EnvBind+"="+bind)
	if dataDir != "" {
		cmd.Env = append(cmd.Env, config.EnvDataDir+"="+dataDir)
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // detach from the terminal session
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start server: %w", err)
	}

	if err := writePIDFile(pidPath, cmd.Process.Pid); err != nil {
		return 0, fmt.Errorf("failed to write PID file: %w", err)
	}
	return cmd.Process.Pid, nil
}

// findServerBinary looks on PATH, then next to the running executable.
func findServerBinary() (string, error) {
	if path, err := exec.LookPath(serverBinary); err == nil {
		return path, nil
	}

	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to find %s binary: %w", serverBinary, err)
	}
	path := filepath.Join(filepath.Dir(self), serverBinary)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s binary not found. Install it first", serverBinary)
	}
	return path, nil
}

// runServerStop sends SIGTERM to the recorded server process.
func runServerStop(pidPath string) (int, error) {
	pid, err := serverPID(pidPath)
	if err != nil {
		return 0, err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return 0, fmt.Errorf("failed to stop server: %w", err)
	}

	removePIDFile(pidPath)
	return pid, nil
}

// serverPID returns the PID of the running server. A stale PID file is
// removed. Both missing and stale report client.ErrServerNotRunning.
func serverPID(pidPath string) (int, error) {
	pid, err := readPIDFile(pidPath)
	if err != nil {
		return 0, fmt.Errorf("%w (no PID file found)", client.ErrServerNotRunning)
	}

	if !isProcessRunning(pid) {
		removePIDFile(pidPath)
		return 0, fmt.Errorf("%w (stale PID file removed)", client.ErrServerNotRunning)
	}
	return pid, nil
}

// writePIDFile writes the process ID to a file
func writePIDFile(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

// readPIDFile reads the process ID from a file
func readPIDFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file content: %w", err)
	}

	return pid, nil
}

// removePIDFile removes the PID file
func removePIDFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// isProcessRunning checks if a process is running
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix FindProcess always succeeds, so probe with signal 0
	return process.Signal(syscall.Signal(0)) == nil
}
