package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const chatQueueSize = 64

// chatQueues раздаёт апдейты обработчику: внутри одного чата строго в
// порядке поступления, разные чаты параллельно. Воркер чата живёт,
// пока его очередь не пуста, и снимается вместе с записью в карте.
type chatQueues struct {
	handler func(context.Context, tgbotapi.Update)

	mu     sync.Mutex
	queues map[int64]chan tgbotapi.Update
}

func newChatQueues(handler func(context.Context, tgbotapi.Update)) *chatQueues {
	return &chatQueues{
		handler: handler,
		queues:  make(map[int64]chan tgbotapi.Update),
	}
}

// dispatch ставит апдейт в очередь чата. false — очередь переполнена,
// апдейт отброшен.
func (c *chatQueues) dispatch(ctx context.Context, chatID int64, upd tgbotapi.Update) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, ok := c.queues[chatID]
	if !ok {
		q = make(chan tgbotapi.Update, chatQueueSize)
		c.queues[chatID] = q
		go c.drain(ctx, chatID, q)
	}

	select {
	case q <- upd:
		return true
	default:
		return false
	}
}

// drain обрабатывает очередь одного чата. Запись удаляется под mu и
// только при пустой очереди; dispatch кладёт в канал тоже под mu,
// поэтому апдейт не может попасть в уже брошенную очередь.
func (c *chatQueues) drain(ctx context.Context, chatID int64, q chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd := <-q:
			c.handler(ctx, upd)
		default:
			c.mu.Lock()
			if len(q) == 0 {
				delete(c.queues, chatID)
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
		}
	}
}
