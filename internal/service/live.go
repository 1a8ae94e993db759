package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/models"
)

// События живой доставки.
const (
	EventNewNotification = "new-notification"
	EventNewMessage      = "new-message"
)

// pushLive пытается доставить событие участнику. Отсутствие участника, ошибка
// и даже panic канала проглатываются: источник истины в хранилище.
func pushLive(presence Presence, log logrus.FieldLogger, party models.Party, event string, payload any) (delivered bool) {
	if presence == nil {
		return false
	}

	fields := logrus.Fields{
		"party_kind": party.Kind,
		"party_id":   party.ID,
		"event":      event,
	}

	ch, ok := presence.Lookup(party)
	if !ok {
		log.WithFields(fields).Debug("live: участник офлайн")
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(fields).WithField("panic", fmt.Sprint(r)).Warn("live: panic при отправке")
			delivered = false
		}
	}()

	if err := ch.Push(event, payload); err != nil {
		log.WithFields(fields).WithError(err).Debug("live: не удалось отправить событие")
		return false
	}
	return true
}
