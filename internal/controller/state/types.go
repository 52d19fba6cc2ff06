package state

// UserState текущий шаг текстового диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Регистрация
	StateSignUpEmail        UserState = "signup_email"
	StateSignUpPassword     UserState = "signup_password"
	StateSignUpConfirmation UserState = "signup_confirmation"

	// Вход
	StateSignInEmail    UserState = "signin_email"
	StateSignInPassword UserState = "signin_password"

	// Онбординг: ввод имени
	StateOnboardingName UserState = "onboarding_name"

	// Администратор вводит план тренировки
	StateRoutineContent UserState = "routine_content"
)

// Ключи временных данных диалога
const (
	KeyEmail     = "email"
	KeyPassword  = "password"
	KeyStudentID = "student_id"
	KeyDay       = "day"
)

// UserData временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]any
}
