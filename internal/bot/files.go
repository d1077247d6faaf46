package bot

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CopyFileBetweenBots перекачивает файл между ботами: file_id не переносится
// между аккаунтами, поэтому файл скачивается у бота-источника и заливается
// заново от имени бота-получателя.
func CopyFileBetweenBots(from, to *tgbotapi.BotAPI, fileID string, chatID int64, caption string) error {
	file, err := from.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return err
	}
	url := file.Link(from.Token)
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("file download failed: " + resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	name := file.FilePath
	if name == "" {
		name = "file"
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err = to.Send(doc)
	return err
}
