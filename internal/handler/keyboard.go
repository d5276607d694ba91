package handler

import (
	"pdf-quiz-bot/internal/constant"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("MCQ", constant.CallbackMCQ),
			tgbotapi.NewInlineKeyboardButtonData("FFQ", constant.CallbackFFQ),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Explain", constant.CallbackExplain),
			tgbotapi.NewInlineKeyboardButtonData("Compile", constant.CallbackCompile),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Save", constant.CallbackSave),
		),
	)
}
