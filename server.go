package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"blinkdb/src"
	"blinkdb/src/log"
)

var rootCmd = &cobra.Command{
	Use:     "blinkdb",
	Short:   "Start the BlinkDB server",
	Long:    `Start the BlinkDB in-memory key-value server. Settings come from the yaml config file and can be overridden by flags or BLINKDB_<FLAG> environment variables (e.g. BLINKDB_CACHE_SIZE=5000).`,
	PreRunE: processConfig,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "config/config.yaml", "path of the yaml config file")
	flags.Int("port", src.DefaultPort, "TCP port to listen on")
	flags.String("dir", "data", "directory of the data and rdb files")
	flags.Int("cache-size", src.DefaultCacheSize, "maximum number of live keys")
	flags.Int("bloom-filter-size", src.DefaultBloomFilterSize, "bit width of the existence filter")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

func initConfig() {
	_ = godotenv.Load(".env")

	viper.SetEnvPrefix("blinkdb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := src.Config.LoadConfig(viper.GetString("config")); err != nil {
		return err
	}
	src.Config.ApplyOverrides(viper.GetViper())
	return src.Config.Validate()
}

func run(_ *cobra.Command, _ []string) error {
	config := src.Config
	log.InitLog(config.Logs)
	defer log.Sync()
	log.DBLogger.Infof("init config! %+v", *config)

	db := src.NewKeySpace(config.CacheSize, config.BloomFilterSize, config.BloomHashes)
	persister := src.NewPersister(db, config.Dir, config.Filename, config.RDBFilename)
	if _, err := persister.LoadFile(); err != nil {
		// 数据文件损坏时不阻止启动, 以空库继续
		log.DBLogger.Errorf("load data: %v", err)
	}

	server, err := src.NewTCPServer(src.NewProcessor(db, persister), config.MaxClients)
	if err != nil {
		return err
	}
	if err := server.Start(config.ListenAddr()); err != nil {
		log.NetLogger.Errorf("tcp server start fail err=%v", err)
		return err
	}

	var stopMetrics func(context.Context) error
	if config.MetricsAddr != "" {
		stopMetrics = src.ServeMetrics(config.MetricsAddr).Shutdown
	}

	jobs, err := src.StartCron(db, persister, config.StatsCron, config.SaveCron)
	if err != nil {
		_ = server.Close()
		return fmt.Errorf("cron: %w", err)
	}

	println(banner)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	s := <-sig
	log.DBLogger.Infof("server will stop by %s...", s.String())

	<-jobs.Stop().Done()
	// 先停止所有的读写, 再持久化
	err = multierr.Append(err, server.Close())
	if stopMetrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = multierr.Append(err, stopMetrics(ctx))
		cancel()
	}
	persister.Wait()
	err = multierr.Append(err, persister.SaveFile())
	if persister.RDBPath() != "" {
		err = multierr.Append(err, persister.SaveRDB())
	}
	if err != nil {
		log.DBLogger.Errorf("shutdown: %v", err)
		return err
	}
	log.DBLogger.Infof("server stopped")
	return nil
}

const banner = `
    ____  ___       __   ____  ____
   / __ )/ (_)___  / /__/ __ \/ __ )
  / __  / / / __ \/ //_/ / / / __  |
 / /_/ / / / / / / ,< / /_/ / /_/ /
/_____/_/_/_/ /_/_/|_/_____/_____/
`

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
