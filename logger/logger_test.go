package logger

import (
	"go-auth-api/config"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitFormatterFollowsConfigEnv(t *testing.T) {
	saved := config.AppConfig.Env
	defer func() {
		config.AppConfig.Env = saved
		Init()
	}()

	config.AppConfig.Env = "production"
	Init()
	assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)

	config.AppConfig.Env = "development"
	Init()
	assert.IsType(t, &logrus.TextFormatter{}, Log.Formatter)
}
