// Package service реализует бизнес-логику сервиса Ready-to-Eat: сессии,
// корзину, обмен баллов, оформление и отслеживание заказов.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/readytoeat/internal/cart"
	"github.com/mmeshcher/readytoeat/internal/catalog"
	"github.com/mmeshcher/readytoeat/internal/model"
	"github.com/mmeshcher/readytoeat/internal/repository"
	"github.com/mmeshcher/readytoeat/internal/rewards"
)

var (
	// ErrInvalidRole возвращается при создании сессии с неизвестной ролью.
	ErrInvalidRole = errors.New("invalid role")
	// ErrForbidden возвращается, если роль сессии не допускает операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrRewardsUnavailable возвращается гостевой сессии при обращении к баллам.
	ErrRewardsUnavailable = errors.New("rewards are not available for guests")
	// ErrInvalidLineKey возвращается для нераспознанного ключа строки корзины.
	ErrInvalidLineKey = errors.New("invalid cart line key")
	// ErrCheckoutUnavailable возвращается вне окна приёма заказов.
	ErrCheckoutUnavailable = errors.New("checkout unavailable")
	// ErrEmptyCart возвращается при оформлении пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
)

// Repository описывает контракт хранения сессий, используемый сервисом.
type Repository interface {
	Close() error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	SaveSession(ctx context.Context, s *model.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsBefore(ctx context.Context, before time.Time, keep []string) (int64, error)
}

// API описывает удалённый API Ready-to-Eat.
type API interface {
	GetFoodItems(ctx context.Context) ([]model.CatalogItem, error)
	GetPoints(ctx context.Context, session string) (int64, error)
	UpdatePoints(ctx context.Context, session string, points int64) error
	PlaceOrder(ctx context.Context, session string, order model.OrderRequest) (string, error)
	GetOrders(ctx context.Context, session string) ([]model.Order, error)
	GetPastOrders(ctx context.Context, session string) ([]model.Order, error)
	GetMenu(ctx context.Context, session string) ([]model.CatalogItem, error)
	AddMenuItem(ctx context.Context, session string, item model.NewMenuItem) error
	UpdateMenuPrice(ctx context.Context, session string, itemID int64, price decimal.Decimal) error
	DeleteMenuItem(ctx context.Context, session string, itemID int64) error
	UpdateOrderStatuses(ctx context.Context, session string) (int, error)
}

// Options содержит необязательные параметры сервиса.
type Options struct {
	// Location задаёт часовой пояс кафетерия для окна оформления и времени готовности.
	Location *time.Location
	// SessionTTL задаёт срок жизни неактивной сессии.
	SessionTTL time.Duration
	// Now подменяет часы в тестах.
	Now func() time.Time
}

// Service содержит бизнес-логику сервиса Ready-to-Eat.
type Service struct {
	repo    Repository
	api     API
	catalog *catalog.Source
	rewards *rewards.Engine
	logger  *zap.Logger

	location   *time.Location
	sessionTTL time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// session описывает загруженную в память сессию. Все операции над корзиной
// выполняются под mu, что даёт однопоточную модель на сессию.
type session struct {
	mu sync.Mutex

	id        string
	role      model.Role
	upstream  string
	points    int64
	cart      *cart.Store
	createdAt time.Time
	lastSeen  time.Time
	// pointsVersion растёт при каждом локальном изменении баланса.
	pointsVersion uint64
}

// NewService создаёт новый сервис.
func NewService(repo Repository, client API, src *catalog.Source, engine *rewards.Engine, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if src == nil {
		src = catalog.NewSource(client)
	}
	if engine == nil {
		engine = rewards.NewEngine(rewards.DefaultTiers(), logger)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		repo:       repo,
		api:        client,
		catalog:    src,
		rewards:    engine,
		logger:     logger,
		location:   opts.Location,
		sessionTTL: opts.SessionTTL,
		now:        opts.Now,
		sessions:   make(map[string]*session),
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// SessionInfo содержит публичное описание сессии.
type SessionInfo struct {
	ID     string     `json:"id"`
	Role   model.Role `json:"role"`
	Points int64      `json:"points"`
}

// CreateSession открывает новую сессию. Для пользователя и администратора
// начальный баланс баллов запрашивается у удалённого API; ошибка запроса
// только логируется.
func (s *Service) CreateSession(ctx context.Context, role model.Role, upstream string) (*SessionInfo, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	now := s.now()
	sess := &session{
		id:        uuid.NewString(),
		role:      role,
		upstream:  upstream,
		cart:      cart.NewStore(),
		createdAt: now,
		lastSeen:  now,
	}

	if role != model.RoleGuest && upstream != "" {
		points, err := s.api.GetPoints(ctx, upstream)
		if err != nil {
			s.logger.Warn("initial points fetch failed", zap.String("session", sess.id), zap.Error(err))
		} else {
			sess.points = points
		}
	}

	if err := s.repo.SaveSession(ctx, sess.snapshot()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return &SessionInfo{ID: sess.id, Role: sess.role, Points: sess.points}, nil
}

// Session возвращает описание существующей сессии.
func (s *Service) Session(ctx context.Context, id string) (*SessionInfo, error) {
	sess, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	return &SessionInfo{ID: sess.id, Role: sess.role, Points: sess.points}, nil
}

// EndSession закрывает сессию и удаляет её корзину.
func (s *Service) EndSession(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return s.repo.DeleteSession(ctx, id)
}

// acquire загружает сессию (из памяти или хранилища) и захватывает её мьютекс.
// Вызывающий обязан освободить sess.mu.
func (s *Service) acquire(ctx context.Context, id string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		stored, err := s.repo.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}

		loaded := &session{
			id:        stored.ID,
			role:      stored.Role,
			upstream:  stored.UpstreamSession,
			points:    stored.Points,
			cart:      cart.NewStore(stored.Cart...),
			createdAt: stored.CreatedAt,
		}

		s.mu.Lock()
		if existing, ok := s.sessions[id]; ok {
			sess = existing
		} else {
			s.sessions[id] = loaded
			sess = loaded
		}
		s.mu.Unlock()
	}

	sess.mu.Lock()
	sess.lastSeen = s.now()
	return sess, nil
}

// persist сохраняет сессию. Ошибка хранилища не отменяет уже выполненную
// операцию над корзиной и только логируется.
func (s *Service) persist(ctx context.Context, sess *session) {
	if err := s.repo.SaveSession(ctx, sess.snapshot()); err != nil {
		s.logger.Error("save session failed", zap.String("session", sess.id), zap.Error(err))
	}
}

func (sess *session) snapshot() *model.Session {
	return &model.Session{
		ID:              sess.id,
		Role:            sess.role,
		UpstreamSession: sess.upstream,
		Points:          sess.points,
		Cart:            sess.cart.Lines(),
		CreatedAt:       sess.createdAt,
	}
}

func (sess *session) setPoints(points int64) {
	if sess.points != points {
		sess.points = points
		sess.pointsVersion++
	}
}

// pointsWriter привязывает сохранение баланса к учётным данным сессии.
type pointsWriter struct {
	api      API
	upstream string
}

func (w pointsWriter) UpdatePoints(ctx context.Context, points int64) error {
	return w.api.UpdatePoints(ctx, w.upstream, points)
}

// IsNotFound сообщает, что сессия не найдена.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrSessionNotFound)
}
