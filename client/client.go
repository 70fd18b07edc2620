package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"blinkdb/src"
)

var (
	host    string
	port    int
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "blinkdb-cli",
	Short: "Interactive BlinkDB client",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&host, "host", "127.0.0.1", "server host")
	rootCmd.Flags().IntVar(&port, "port", src.DefaultPort, "server port")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "dial timeout")
}

func run(_ *cobra.Command, _ []string) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	client, err := src.Dial(address, timeout)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	// 创建一个新的读取器，与标准输入绑定
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(address, "> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" {
			return nil
		}
		reply, err := client.Do(input)
		if err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}
		fmt.Println(src.FormatReply(reply))
		if strings.EqualFold(input, "quit") {
			return nil
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
