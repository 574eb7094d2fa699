// Package notifier delivers desktop notifications through the tandem tray
// companion app. The tray publishes a lockfile with its webhook port, pid, and
// shared secret; we verify the pid actually belongs to the tray before posting.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/tandemhq/tandem/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when the tray lockfile is absent or its
// recorded process is gone.
var ErrTrayNotRunning = errors.New("tandem-tray is not running")

type Notifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 5 * time.Second}}
}

// Notify posts a single notification to the tray, retrying transient HTTP
// failures a few times before giving up.
func (n *Notifier) Notify(text string) error {
	trayConfigDir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(trayConfigDir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}

	var lastErr error
	for attempt := 0; attempt < constants.NotifyMaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(constants.NotifyRetryDelay)
		}
		if lastErr = n.send(port, secret, payload); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// CelebrateMilestone announces a newly reached streak milestone. The wording
// differs for partnered streaks since both people earned it.
func (n *Notifier) CelebrateMilestone(milestone int, withPartner bool) error {
	text := fmt.Sprintf("%d weeks reviewed in a row! Keep the streak going.", milestone)
	if withPartner {
		text = fmt.Sprintf("You and your partner reviewed %d weeks in a row! Celebrate together.", milestone)
	}
	return n.Notify(text)
}

// GetTrayAppConfigDir returns the configuration directory used by the tray
// application, honoring a custom lockfile dir from its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	settingsPath := filepath.Join(trayConfigDir, "settings.json")
	if data, err := os.ReadFile(settingsPath); err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if err := json.Unmarshal(data, &store); err == nil {
			if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
				return *store.Settings.LockfileDir, nil
			}
		}
	}

	return trayConfigDir, nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}

	// A recycled pid could point at an unrelated process; never send the
	// secret to one.
	if !strings.HasPrefix(process.Executable(), "tandem-tray") {
		return "", "", fmt.Errorf("process with PID %d is not tandem-tray (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func (n *Notifier) send(port string, secret string, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tandem-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
