package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-booking/internal/domain/restaurant"
	"github.com/sanosuguru/go-table-booking/internal/pkg/logger"
)

// ChannelName はレストラン変更通知のLISTENチャネル名
// マイグレーションで張られたトリガーが pg_notify で発火する
const ChannelName = "restaurant_updates"

// pingInterval は通知が途絶えたときの接続確認間隔
const pingInterval = 90 * time.Second

// Snapshot はレストラン一覧の全量スナップショット
// 差分ではなく常に全件で置き換える
type Snapshot []*restaurant.Restaurant

// RestaurantLister はスナップショット再取得のためのインターフェース
type RestaurantLister interface {
	List(ctx context.Context) ([]*restaurant.Restaurant, error)
}

// ChangeListener はストレージの変更通知ストリームを抽象化する
// *pq.Listener がこれを満たす
type ChangeListener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// NewPQListener はLISTEN/NOTIFY用の pq.Listener を作成する
func NewPQListener(dsn string) *pq.Listener {
	return pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("変更通知リスナーイベント", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
}

// AvailabilityNotifier はレストラン集合のライブビューを購読者へ配信する
// 通知のたびに全件を再取得してスナップショットを丸ごと置き換える
// 再取得に失敗した場合は直前のスナップショットを保持する（黙ってデータを落とさない）
type AvailabilityNotifier struct {
	lister   RestaurantLister
	listener ChangeListener

	mu          sync.RWMutex
	snapshot    Snapshot
	subscribers map[int]chan Snapshot
	nextSubID   int

	closeOnce sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewAvailabilityNotifier はAvailabilityNotifierを作成する
func NewAvailabilityNotifier(lister RestaurantLister, listener ChangeListener) *AvailabilityNotifier {
	return &AvailabilityNotifier{
		lister:      lister,
		listener:    listener,
		subscribers: make(map[int]chan Snapshot),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Run は購読ループを開始する（ブロッキング、goroutineで呼ぶ）
func (n *AvailabilityNotifier) Run(ctx context.Context) {
	defer close(n.doneCh)

	if err := n.listener.Listen(ChannelName); err != nil {
		logger.Error("変更通知の購読開始に失敗", zap.String("channel", ChannelName), zap.Error(err))
		return
	}
	logger.Info("レストラン変更通知の購読開始", zap.String("channel", ChannelName))

	// 初回スナップショット
	n.refresh(ctx)

	notifications := n.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			logger.Info("空席通知停止（コンテキストキャンセル）")
			return
		case <-n.stopCh:
			logger.Info("空席通知停止（シグナル受信）")
			return
		case notification := <-notifications:
			// 再接続直後は nil が届くことがあるが、どちらにせよ全件再取得する
			if notification != nil {
				logger.Debug("レストラン変更通知受信", zap.String("payload", notification.Extra))
			}
			n.refresh(ctx)
		case <-time.After(pingInterval):
			if err := n.listener.Ping(); err != nil {
				logger.Warn("変更通知リスナーの接続確認に失敗", zap.Error(err))
			}
		}
	}
}

// Subscribe はスナップショットの購読を開始する
// 返された解除関数は何度呼んでも解除は一度だけ行われる
func (n *AvailabilityNotifier) Subscribe() (<-chan Snapshot, func()) {
	n.mu.Lock()
	id := n.nextSubID
	n.nextSubID++
	ch := make(chan Snapshot, 1)
	n.subscribers[id] = ch
	if n.snapshot != nil {
		ch <- n.snapshot
	}
	n.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subscribers, id)
			close(ch)
			n.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

// Snapshot は現在のスナップショットを返す
func (n *AvailabilityNotifier) Snapshot() Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.snapshot
}

// Close は購読ループとリスナー接続を閉じる（冪等）
func (n *AvailabilityNotifier) Close() {
	n.closeOnce.Do(func() {
		close(n.stopCh)
		if err := n.listener.Close(); err != nil {
			logger.Warn("変更通知リスナーのクローズに失敗", zap.Error(err))
		}
		<-n.doneCh
	})
}

// refresh は全件を再取得してスナップショットを置き換え、購読者へ配信する
// 失敗時は直前のスナップショットを保持する
func (n *AvailabilityNotifier) refresh(ctx context.Context) {
	restaurants, err := n.lister.List(ctx)
	if err != nil {
		logger.Error("レストラン一覧の再取得に失敗（直前のスナップショットを保持）", zap.Error(err))
		return
	}

	snap := Snapshot(restaurants)
	n.mu.Lock()
	n.snapshot = snap
	for _, ch := range n.subscribers {
		// 遅い購読者をブロックしない: 未消費の古いスナップショットは最新で置き換える
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
	n.mu.Unlock()
	logger.Debug("空席スナップショット更新", zap.Int("restaurants", len(snap)))
}
