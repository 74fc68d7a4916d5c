package main

import (
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solutions/interview-coach/internal/common/utils"
	"github.com/solutions/interview-coach/internal/service/task"
	"github.com/solutions/interview-coach/internal/service/web"

	"github.com/jasonlvhit/gocron"
	"github.com/qiniu/x/log"
)

var (
	configFilePath = "interview-coach.conf"
)

func main() {
	flag.StringVar(&configFilePath, "f", configFilePath, "configuration file to run interview-coach server")
	flag.Parse()

	utils.InitConf(configFilePath)
	log.SetOutputLevel(utils.DefaultConf.DebugLevel)
	rand.Seed(time.Now().UnixNano())

	// 启动定时任务
	go func() {
		sessionJanitor, err := task.NewSessionJanitor(utils.DefaultConf)
		if err != nil {
			log.Fatalf("failed to create session janitor, error %v", err)
		}
		_ = gocron.Every(10).Minutes().Do(sessionJanitor.StartExpireTask)
		_ = gocron.Every(10).Minutes().Do(sessionJanitor.StartPurgeTask)
		<-gocron.Start()
	}()

	// 启动 gin HTTP server。
	r, err := web.NewRouter(&utils.DefaultConf)
	if err != nil {
		log.Fatalf("failed to create gin HTTP server, error %v", err)
	}

	errch := make(chan error, 1)
	go func() {
		httpServerErr := r.Run(utils.DefaultConf.ListenAddr)
		errch <- httpServerErr
	}()

	qC := make(chan os.Signal, 1)
	signal.Notify(qC, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-qC:
		log.Info(s.String())
	case err = <-errch:
		log.Error("http server stopped, error", err.Error())
	}
}
