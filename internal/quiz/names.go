package quiz

import "math/rand"

var maleNames = []string{
	"James", "Robert", "John", "Michael", "David",
	"William", "Richard", "Joseph", "Thomas", "Christopher",
	"Charles", "Daniel", "Matthew", "Anthony", "Mark",
	"Donald", "Steven", "Andrew", "Paul", "Joshua",
	"Kenneth", "Kevin", "Brian", "George", "Timothy",
	"Ronald", "Jason", "Edward", "Jeffrey", "Ryan",
	"Jacob", "Gary", "Nicholas", "Eric", "Jonathan",
	"Stephen", "Larry", "Justin", "Scott", "Brandon",
	"Benjamin", "Samuel", "Gregory", "Alexander", "Patrick",
	"Frank", "Raymond", "Jack", "Dennis", "Jerry",
	"Tyler", "Aaron", "Jose", "Adam", "Nathan",
	"Henry", "Zachary", "Douglas", "Peter", "Kyle",
	"Noah", "Ethan", "Jeremy", "Walter", "Christian",
	"Keith", "Roger", "Terry", "Austin", "Sean",
	"Gerald", "Carl", "Harold", "Dylan", "Arthur",
	"Lawrence", "Jordan", "Jesse", "Bryan", "Billy",
	"Bruce", "Gabriel", "Joe", "Logan", "Alan",
	"Juan", "Albert", "Willie", "Elijah", "Wayne",
	"Randy", "Vincent", "Mason", "Roy", "Ralph",
	"Bobby", "Russell", "Bradley", "Philip", "Eugene",
}

var femaleNames = []string{
	"Mary", "Patricia", "Jennifer", "Linda", "Elizabeth",
	"Barbara", "Susan", "Jessica", "Sarah", "Karen",
	"Lisa", "Nancy", "Betty", "Sandra", "Margaret",
	"Ashley", "Kimberly", "Emily", "Donna", "Michelle",
	"Carol", "Amanda", "Melissa", "Deborah", "Stephanie",
	"Dorothy", "Rebecca", "Sharon", "Laura", "Cynthia",
	"Amy", "Kathleen", "Angela", "Shirley", "Brenda",
	"Emma", "Anna", "Pamela", "Nicole", "Samantha",
	"Katherine", "Christine", "Helen", "Debra", "Rachel",
	"Carolyn", "Janet", "Maria", "Catherine", "Heather",
	"Diane", "Olivia", "Julie", "Joyce", "Victoria",
	"Ruth", "Virginia", "Lauren", "Kelly", "Christina",
	"Joan", "Evelyn", "Judith", "Andrea", "Hannah",
	"Megan", "Cheryl", "Jacqueline", "Martha", "Madison",
	"Teresa", "Gloria", "Sara", "Janice", "Ann",
	"Kathryn", "Abigail", "Sophia", "Frances", "Jean",
	"Alice", "Judy", "Isabella", "Julia", "Grace",
	"Amber", "Denise", "Danielle", "Marilyn", "Beverly",
	"Charlotte", "Natalie", "Theresa", "Diana", "Brittany",
	"Doris", "Kayla", "Alexis", "Lori", "Marie",
}

// NamePoolSize is the number of distinct names available to a single quiz,
// and therefore the maximum supported problem size.
var NamePoolSize = len(maleNames) + len(femaleNames)

// sampleNames draws n distinct names from the combined pool using a partial
// Fisher-Yates shuffle on the supplied source. Callers must validate
// n <= NamePoolSize.
func sampleNames(n int, rng *rand.Rand) []string {
	pool := make([]string, 0, NamePoolSize)
	pool = append(pool, maleNames...)
	pool = append(pool, femaleNames...)

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}
