package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running core",
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, "http://"+cfg.Server.Addr+"/status", nil)
	if err != nil {
		exitErr("build request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		exitErr("status", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		exitErr("read status", err)
	}
	if resp.StatusCode != http.StatusOK {
		exitErr("status", fmt.Errorf("%s: %s", resp.Status, body))
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		exitErr("decode status", err)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
