// Services defined in this package:
// - AuthService: login, token refresh and self-registration
// - AccountRequestService: admin review of pending account applications
// - UserService: admin management of member accounts
// - BookService: catalog management and search
// - CatalogService: authors, publishers, subjects and departments
// - CirculationService: borrow, return and renewal of book copies
// - ReservationService: reservation queues per book
// - OverdueService: overdue detection, fining and reminders
// - FineService: fine payment and waiver
// - NotificationService: in-app notifications
// - DashboardService: admin dashboard totals
package services
