package config_test

import (
	"testing"
	"time"

	"github.com/okian/campnav/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.EventsURL, convey.ShouldEqual, "http://129.21.63.14:3000/api/events")
			convey.So(cfg.FetchTimeout, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.FetchOnStart, convey.ShouldBeTrue)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then optional transports are off", func() {
			convey.So(cfg.KafkaEnabled(), convey.ShouldBeFalse)
			convey.So(cfg.MinIOEnabled(), convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given a config with kafka brokers but no topic", t, func() {
		cfg := config.New()
		cfg.KafkaBrokers = []string{"localhost:9092"}

		convey.Convey("Then kafka stays disabled until a topic is set", func() {
			convey.So(cfg.KafkaEnabled(), convey.ShouldBeFalse)
			cfg.KafkaTopic = "device-updates"
			convey.So(cfg.KafkaEnabled(), convey.ShouldBeTrue)
		})
	})
}
