package tg

import (
	"github.com/zelenin/go-tdlib/client"

	"github.com/larriantoniy/pethome_bot/internal/config"
)

func tdParams(cfg *config.AppConfig, dbDir, filesDir string) *client.SetTdlibParametersRequest {
	return &client.SetTdlibParametersRequest{
		UseTestDc:           false,
		DatabaseDirectory:   dbDir,
		FilesDirectory:      filesDir,
		UseFileDatabase:     false,
		UseChatInfoDatabase: false,
		UseMessageDatabase:  false,
		UseSecretChats:      false,
		ApiId:               cfg.ApiID,
		ApiHash:             cfg.ApiHash,
		SystemLanguageCode:  "en",
		DeviceModel:         "Server",
		SystemVersion:       "Linux",
		ApplicationVersion:  "1.0",
	}
}
