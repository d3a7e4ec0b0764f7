package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"wellcontrol/handler"
	"wellcontrol/model"
	"wellcontrol/pkg/conf"
	"wellcontrol/pkg/logger"
	"wellcontrol/service"
)

var db *gorm.DB

func main() {
	conf.InitConf("./wellcontrol.yaml")
	logger.InitLogger("wellcontrol")

	var err error
	dsn := conf.Conf.GetString("mysql.dsn")
	db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormLogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormLogger.Info,
			Colorful:      true,
		}),
	})
	if err != nil {
		logger.Logger.Errorf("failed to connect database: %v", err)
		return
	}

	// 配置了只读副本时注册读写分离
	if replicas := conf.Conf.GetStringSlice("mysql.replicas"); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, r := range replicas {
			dialectors = append(dialectors, mysql.Open(r))
		}
		if err = db.Use(dbresolver.Register(dbresolver.Config{Replicas: dialectors})); err != nil {
			logger.Logger.Errorf("注册读写分离失败: %v", err)
			return
		}
	}

	if err = db.AutoMigrate(
		&model.Well{},
		&model.FluidLayerRecord{},
		&model.HoleSection{},
		&model.PipeSection{},
		&model.SurveyStationRecord{},
		&model.TripRun{},
	); err != nil {
		logger.Logger.Errorf("建表失败: %v", err)
		return
	}

	rig := service.NewRigFeed(conf.Conf.GetString("rig.address"), conf.Conf.GetDuration("rig.pollInterval"))
	rig.Start()
	defer rig.Stop()

	svc := service.NewService(db, rig)
	r := SetupRouter(svc)
	_ = r.Run(conf.Conf.GetString("server.port"))
}

func SetupRouter(svc *service.Service) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{conf.Conf.GetString("frontend.host")}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	h := handler.NewHandler(svc)
	api := r.Group("/v1")
	{
		api.GET("/wells", h.ListWells)
		api.POST("/wells", h.CreateWell)
		api.PUT("/wells/:id/layers", h.ReplaceLayers)
		api.PUT("/wells/:id/holes", h.ReplaceHoleSections)
		api.PUT("/wells/:id/pipes", h.ReplacePipeSections)
		api.PUT("/wells/:id/surveys", h.ReplaceSurveys)
		api.POST("/wells/:id/trip", h.RunTrip)
		api.POST("/wells/:id/swab", h.EstimateSwab)
		api.GET("/wells/:id/runs", h.ListRuns)

		api.GET("/runs/:runId", h.GetRun)
		api.GET("/runs/:runId/export", h.ExportRun)

		api.POST("/calc/apl", h.CalcAPL)
		api.POST("/calc/ecd", h.CalcECD)
		api.POST("/calc/swab", h.CalcSwab)
		api.POST("/calc/ballooning", h.CalcBallooning)

		api.GET("/rig/snapshot", h.RigSnapshot)
		api.GET("/ws/trip", h.TripStream)
	}

	return r
}
