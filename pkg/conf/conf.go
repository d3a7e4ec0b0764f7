package conf

import (
	"log"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

// InitConf 加载配置文件并监听变更，修改后无需重启服务
func InitConf(path string) {
	Conf = viper.New()
	Conf.SetConfigFile(path)

	Conf.SetDefault("server.port", ":12580")
	Conf.SetDefault("frontend.host", "http://localhost:5173")
	Conf.SetDefault("mysql.dsn", "root:123456@tcp(127.0.0.1:3306)/wellcontrol?charset=utf8mb4&parseTime=True&loc=Local")
	Conf.SetDefault("rig.address", "127.0.0.1:4001")
	Conf.SetDefault("rig.pollInterval", "2s")
	Conf.SetDefault("simulation.safetyFactor", 1.15)
	Conf.SetDefault("simulation.stepSize", 10.0)
	Conf.SetDefault("simulation.floatCrackPressure", 345.0)

	if err := Conf.ReadInConfig(); err != nil {
		log.Printf("读取配置文件 %s 失败，使用默认配置: %v", path, err)
		return
	}

	Conf.WatchConfig()
	Conf.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("配置文件已更新: %s", e.Name)
	})
}
