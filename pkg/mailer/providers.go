package mailer

import (
	"booth-service/pkg/mailer/providers"
	"booth-service/pkg/mailer/templates"
)

func NewResendProvider(config providers.ResendConfig) *providers.ResendProvider {
	return providers.NewResendProvider(config)
}

func NewSendGridProvider(config providers.SendGridConfig) *providers.SendGridProvider {
	return providers.NewSendGridProvider(config)
}

func DeliveryLinkTemplate() (*templates.TypedTemplate[templates.DeliveryLinkContext], error) {
	return templates.DeliveryLinkTemplate()
}

func SelectionInviteTemplate() (*templates.TypedTemplate[templates.SelectionInviteContext], error) {
	return templates.SelectionInviteTemplate()
}
