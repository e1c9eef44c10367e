package repositories

import (
	"github.com/sculib/library/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	TokenRepository          *TokenRepository
	DepartmentRepository     *DepartmentRepository
	AuthorRepository         *AuthorRepository
	PublisherRepository      *PublisherRepository
	SubjectRepository        *SubjectRepository
	BookRepository           *BookRepository
	BookCopyRepository       *BookCopyRepository
	BorrowRepository         *BorrowRepository
	ReservationRepository    *ReservationRepository
	FineRepository           *FineRepository
	AccountRequestRepository *AccountRequestRepository
	NotificationRepository   *NotificationRepository
	AuditRepository          *AuditRepository
	DashboardRepository      *DashboardRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	pool := database.Pool
	return &Repositories{
		UserRepository:           NewUserRepository(pool),
		TokenRepository:          NewTokenRepository(pool),
		DepartmentRepository:     NewDepartmentRepository(pool),
		AuthorRepository:         NewAuthorRepository(pool),
		PublisherRepository:      NewPublisherRepository(pool),
		SubjectRepository:        NewSubjectRepository(pool),
		BookRepository:           NewBookRepository(database),
		BookCopyRepository:       NewBookCopyRepository(database),
		BorrowRepository:         NewBorrowRepository(database),
		ReservationRepository:    NewReservationRepository(database),
		FineRepository:           NewFineRepository(pool),
		AccountRequestRepository: NewAccountRequestRepository(pool),
		NotificationRepository:   NewNotificationRepository(pool),
		AuditRepository:          NewAuditRepository(pool),
		DashboardRepository:      NewDashboardRepository(pool),
	}
}
