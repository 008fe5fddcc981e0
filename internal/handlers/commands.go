package handlers

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// RegisterBotCommands возвращает команды для меню бота.
// Команды администратора в меню не попадают.
func (h *Handlers) RegisterBotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Начать работу с ботом"},
		{Command: "today", Description: "Расписание на сегодня"},
		{Command: "next", Description: "Расписание на следующий день"},
		{Command: "subscribe", Description: "Подписаться на изменения группы"},
		{Command: "unsubscribe", Description: "Отписаться от изменений"},
		{Command: "groups", Description: "Список групп"},
		{Command: "default", Description: "Обычное расписание по дням недели"},
		{Command: "ical", Description: "Выгрузить пары в календарь"},
		{Command: "help", Description: "Показать справку"},
	}
}
