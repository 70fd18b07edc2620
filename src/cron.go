package src

import (
	"runtime"

	"github.com/robfig/cron/v3"

	"blinkdb/src/log"
)

// StartCron schedules the stats report and, when saveSpec is set, the
// periodic flat file save. Empty specs disable their job.
func StartCron(db *KeySpace, persister *Persister, statsSpec, saveSpec string) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())
	if statsSpec != "" {
		if _, err := c.AddFunc(statsSpec, func() { printMemoryStats(db) }); err != nil {
			return nil, err
		}
	}
	if saveSpec != "" && persister != nil {
		_, err := c.AddFunc(saveSpec, func() {
			if err := persister.SaveFile(); err != nil {
				log.CronLogger.Errorf("scheduled save: %v", err)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	c.Start()
	return c, nil
}

func printMemoryStats(db *KeySpace) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	//当前程序中所有堆分配的对象的总大小
	log.CronLogger.Infof("heap memory: %v MiB, sys: %v MiB, gc: %v", m.Alloc/1024/1024, m.Sys/1024/1024, m.NumGC)
	log.CronLogger.Infof("keys: %d/%d, bloom saturation: %.4f", db.DBSize(), db.Capacity(), db.BloomSaturation())
}
