package directory

import "github.com/okian/campnav/internal/domain/model"

// AllCategories selects every entry.
const AllCategories = "All"

// DefaultClubIcon is used when a new club has no icon.
const DefaultClubIcon = "person.3.fill"

// ClubCategories are the filter chips on the clubs tab.
func ClubCategories() []string {
	return []string{AllCategories, "Academic", "Arts", "STEM", "Sports", "Cultural"}
}

// CreateCategories are the categories a new club may pick.
func CreateCategories() []string {
	return []string{"Academic", "Arts", "STEM", "Sports", "Cultural"}
}

// ClubIcons are the icons a new club may pick.
func ClubIcons() []string {
	return []string{DefaultClubIcon, "book.fill", "paintpalette.fill", "music.note", "atom", "sportscourt.fill"}
}

// EventCategories are the filter chips on the events tab.
func EventCategories() []string {
	return []string{AllCategories, "Clubs", "Campus-wide Events", "RIT Athletics", "Workshops"}
}

// SampleClubs returns the built-in club listings.
func SampleClubs() []model.Club {
	clubs := []model.Club{
		{Name: "Debate Team", Icon: "mic.fill", Members: 24, Category: "Academic",
			MeetingTime: "Wed 3-4 PM", Location: "Student Union 205", Advisor: "Prof. Smith",
			Description: "Competitive debate team open to all students."},
		{Name: "Robotics Club", Icon: "atom", Members: 18, Category: "STEM",
			MeetingTime: "Fri 2-5 PM", Location: "Engineering Bldg 101", Advisor: "Dr. Lee",
			Description: "Build robots and compete in national competitions."},
		{Name: "Film Society", Icon: "film.fill", Members: 32, Category: "Arts",
			MeetingTime: "Tue 7-9 PM", Location: "Liberal Arts 306", Advisor: "Prof. Johnson",
			Description: "Weekly film screenings and discussions about cinema."},
		{Name: "Computer Science Guild", Icon: "laptopcomputer", Members: 45, Category: "STEM",
			MeetingTime: "Mon 6-8 PM", Location: "Golisano 209", Advisor: "Dr. Chen",
			Description: "Hackathons, workshops, and tech talks for CS students."},
		{Name: "Environmental Alliance", Icon: "leaf.fill", Members: 28, Category: "Activism",
			MeetingTime: "Thu 4-5:30 PM", Location: "Sustainability Center", Advisor: "Dr. Rodriguez",
			Description: "Promoting sustainability initiatives on campus."},
		{Name: "Chess Club", Icon: "checkerboard.rectangle", Members: 15, Category: "Recreation",
			MeetingTime: "Wed 6-8 PM", Location: "Campus Center Game Room", Advisor: "Prof. Williams",
			Description: "Casual and competitive play for all skill levels."},
		{Name: "Entrepreneurship Society", Icon: "dollarsign.circle.fill", Members: 22, Category: "Business",
			MeetingTime: "Mon 5-6:30 PM", Location: "Saunders 115", Advisor: "Prof. Davis",
			Description: "Helping students develop business ideas and startups."},
		{Name: "Photography Club", Icon: "camera.fill", Members: 19, Category: "Arts",
			MeetingTime: "Thu 7-9 PM", Location: "Art Building Darkroom", Advisor: "Prof. Kim",
			Description: "Photo walks, workshops, and gallery exhibitions."},
		{Name: "International Students Association", Icon: "globe", Members: 65, Category: "Cultural",
			MeetingTime: "Fri 4-6 PM", Location: "Global Village", Advisor: "Dr. Patel",
			Description: "Cultural exchange and support for international students."},
		{Name: "Volunteer Corps", Icon: "hands.sparkles.fill", Members: 40, Category: "Community Service",
			MeetingTime: "Sat 10AM-12PM", Location: "Student Activities Office", Advisor: "Prof. Taylor",
			Description: "Organizing community service projects in the local area."},
		{Name: "Cybersecurity Club", Icon: "lock.shield.fill", Members: 27, Category: "STEM",
			MeetingTime: "Tue 5-7 PM", Location: "Cybersecurity Lab", Advisor: "Dr. Wilson",
			Description: "Ethical hacking competitions and security workshops."},
	}
	for i := range clubs {
		clubs[i].ID = slug(clubs[i].Name)
		clubs[i].Status = model.ClubActive
	}
	return clubs
}

// SampleEvents returns the built-in event listings.
func SampleEvents() []model.Event {
	events := []model.Event{
		{Title: "Tech Club Meetup", Date: "March 30, 2025", Time: "6:00 PM", Location: "Student Center",
			Image: "event1", Category: "Clubs",
			Description: "Join us for our monthly tech club gathering where we'll discuss the latest in software development and network with fellow tech enthusiasts."},
		{Title: "Music Night", Date: "April 5, 2025", Time: "8:00 PM", Location: "Main Hall",
			Image: "event2", Category: "Campus-wide Events",
			Description: "An evening of live performances from student bands and solo artists across various genres. Free admission for all students."},
		{Title: "Career Fair", Date: "April 12, 2025", Time: "10:00 AM", Location: "Gymnasium",
			Image: "event3", Category: "Campus-wide Events",
			Description: "Connect with top employers from various industries looking to hire RIT students. Bring your resume and dress professionally."},
		{Title: "Men's Tennis vs Hobart", Date: "April 17, 2025", Time: "03:00 PM", Location: "Gordon Field House",
			Image: "event3", Category: "RIT Athletics",
			Description: "Cheer on our RIT Tigers as they face Hobart College in an exciting tennis match. Free for students with ID."},
		{Title: "iOS Development Workshop", Date: "April 20, 2025", Time: "2:00 PM", Location: "Golisano College",
			Image: "event4", Category: "Workshops",
			Description: "Learn the fundamentals of iOS app development in this hands-on workshop. No prior experience required. Bring your Mac laptop."},
		{Title: "Film Festival", Date: "April 22, 2025", Time: "7:00 PM", Location: "Ingle Auditorium",
			Image: "event5", Category: "Campus-wide Events",
			Description: "Screening of student-produced short films followed by Q&A with the filmmakers. Free popcorn for all attendees."},
	}
	for i := range events {
		events[i].ID = slug(events[i].Title)
	}
	return events
}
