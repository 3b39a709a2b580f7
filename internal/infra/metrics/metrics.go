package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supplybot_orders_started_total",
		Help: "Сколько раз начинали создание заявки.",
	})
	OrdersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supplybot_orders_sent_total",
		Help: "Успешно отправленные заявки.",
	})
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supplybot_orders_cancelled_total",
		Help: "Отменённые диалоги (глобальная отмена и отказ от отправки).",
	})
	DispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supplybot_dispatch_failures_total",
		Help: "Сбои формирования или отправки заявки.",
	})
	AttachmentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supplybot_attachment_failures_total",
		Help: "Вложения, которые не удалось скачать при отправке.",
	})
)
