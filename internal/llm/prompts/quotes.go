package prompts

// quotes is the motivational pool the coach appends to every few replies.
var quotes = []string{
	"The secret of getting ahead is getting started. – Mark Twain",
	"Don't watch the clock; do what it does. Keep going. – Sam Levenson",
	"The expert in anything was once a beginner. – Helen Hayes",
	"Success is the sum of small efforts, repeated day in and day out. – Robert Collier",
	"Believe you can and you're halfway there. – Theodore Roosevelt",
	"The only way to do great work is to love what you do. – Steve Jobs",
	"You are braver than you believe, stronger than you seem, and smarter than you think. – A.A. Milne",
	"Success is not final, failure is not fatal: It is the courage to continue that counts. – Winston Churchill",
	"The future belongs to those who believe in the beauty of their dreams. – Eleanor Roosevelt",
	"Your time is limited, don't waste it living someone else's life. – Steve Jobs",
	"The more that you read, the more things you will know. The more that you learn, the more places you'll go. – Dr. Seuss",
	"Education is the passport to the future, for tomorrow belongs to those who prepare for it today. – Malcolm X",
	"The beautiful thing about learning is that no one can take it away from you. – B.B. King",
	"Don't let what you cannot do interfere with what you can do. – John Wooden",
	"It's not about perfect. It's about effort. – Jillian Michaels",
	"The only limit to our realization of tomorrow is our doubts of today. – Franklin D. Roosevelt",
	"You don't have to be great to start, but you have to start to be great. – Zig Ziglar",
	"The man who does not read books has no advantage over the one who cannot read them. – Mark Twain",
	"Learning is never done without errors and defeat. – Vladimir Lenin",
	"The more you know, the more you realize you don't know. – Aristotle",
	"Education is not preparation for life; education is life itself. – John Dewey",
	"The only person who is educated is the one who has learned how to learn and change. – Carl Rogers",
	"Learning is a treasure that will follow its owner everywhere. – Chinese Proverb",
	"The roots of education are bitter, but the fruit is sweet. – Aristotle",
	"Develop a passion for learning. If you do, you will never cease to grow. – Anthony J. D'Angelo",
	"The capacity to learn is a gift; the ability to learn is a skill; the willingness to learn is a choice. – Brian Herbert",
	"Learning is like rowing upstream: not to advance is to drop back. – Chinese Proverb",
	"The more I live, the more I learn. The more I learn, the more I realize, the less I know. – Michel Legrand",
	"Education is the key to unlock the golden door of freedom. – George Washington Carver",
	"The beautiful thing about learning is nobody can take it away from you. – B.B. King",
}

// Quote picks from the pool by turn counter, cycling so a long session
// sees the whole list before any repeats.
func Quote(n int) string {
	if n < 0 {
		n = -n
	}
	return quotes[n%len(quotes)]
}
