package resources

import "time"

// seedCatalog returns the demo catalog written when the document has no resources.
func seedCatalog(createdAt time.Time) []DigitalResource {
	catalog := []DigitalResource{
		{ID: 1, Title: "Clean Code: A Handbook of Agile Software Craftsmanship", Author: "Robert C. Martin", Format: FormatPDF, FileSizeLabel: "2.4 MB", DownloadCount: 15, Tags: []string{"programming", "best practices", "software engineering"}, Description: "Книга о написании чистого, поддерживаемого кода", FileURL: "/files/clean-code.pdf"},
		{ID: 2, Title: "JavaScript: The Good Parts", Author: "Douglas Crockford", Format: FormatEPUB, FileSizeLabel: "1.8 MB", DownloadCount: 23, Tags: []string{"javascript", "programming", "web development"}, Description: "Изучение хороших частей JavaScript", FileURL: "/files/javascript-good-parts.epub"},
		{ID: 3, Title: "The Pragmatic Programmer", Author: "Andrew Hunt, David Thomas", Format: FormatPDF, FileSizeLabel: "3.1 MB", DownloadCount: 31, Tags: []string{"programming", "career", "best practices"}, Description: "Путь от мастера-ремесленника к истинному прагматику", FileURL: "/files/pragmatic-programmer.pdf"},
		{ID: 4, Title: "Design Patterns: Elements of Reusable Object-Oriented Software", Author: "Erich Gamma, Richard Helm, Ralph Johnson, John Vlissides", Format: FormatPDF, FileSizeLabel: "4.2 MB", DownloadCount: 28, Tags: []string{"design patterns", "object-oriented", "software architecture"}, Description: "Классическая книга о шаблонах проектирования", FileURL: "/files/design-patterns.pdf"},
		{ID: 5, Title: "Introduction to Algorithms", Author: "Thomas H. Cormen, Charles E. Leiserson, Ronald L. Rivest, Clifford Stein", Format: FormatPDF, FileSizeLabel: "5.7 MB", DownloadCount: 19, Tags: []string{"algorithms", "computer science", "mathematics"}, Description: "Введение в алгоритмы и анализ их сложности", FileURL: "/files/intro-algorithms.pdf"},
		{ID: 6, Title: "Structure and Interpretation of Computer Programs", Author: "Harold Abelson, Gerald Jay Sussman", Format: FormatPDF, FileSizeLabel: "3.8 MB", DownloadCount: 12, Tags: []string{"programming", "computer science", "scheme"}, Description: "Классический учебник по компьютерным наукам", FileURL: "/files/sicp.pdf"},
		{ID: 7, Title: "The Art of Computer Programming", Author: "Donald Knuth", Format: FormatPDF, FileSizeLabel: "8.1 MB", DownloadCount: 8, Tags: []string{"algorithms", "mathematics", "computer science"}, Description: "Монументальный труд Дональда Кнута", FileURL: "/files/taocp.pdf"},
		{ID: 8, Title: "Code Complete", Author: "Steve McConnell", Format: FormatEPUB, FileSizeLabel: "4.5 MB", DownloadCount: 17, Tags: []string{"programming", "software construction", "best practices"}, Description: "Практическое руководство по построению программного обеспечения", FileURL: "/files/code-complete.epub"},
		{ID: 9, Title: "Refactoring: Improving the Design of Existing Code", Author: "Martin Fowler", Format: FormatPDF, FileSizeLabel: "3.2 MB", DownloadCount: 21, Tags: []string{"refactoring", "programming", "software design"}, Description: "Руководство по рефакторингу кода", FileURL: "/files/refactoring.pdf"},
		{ID: 10, Title: "Head First Design Patterns", Author: "Eric Freeman, Elisabeth Robson", Format: FormatPDF, FileSizeLabel: "6.3 MB", DownloadCount: 25, Tags: []string{"design patterns", "object-oriented", "learning"}, Description: "Изучение шаблонов проектирования в увлекательной форме", FileURL: "/files/head-first-patterns.pdf"},
		{ID: 11, Title: "You Don't Know JS", Author: "Kyle Simpson", Format: FormatEPUB, FileSizeLabel: "2.1 MB", DownloadCount: 32, Tags: []string{"javascript", "programming", "web development"}, Description: "Серия книг о глубоком понимании JavaScript", FileURL: "/files/ydkjs.epub"},
		{ID: 12, Title: "Eloquent JavaScript", Author: "Marijn Haverbeke", Format: FormatPDF, FileSizeLabel: "3.4 MB", DownloadCount: 27, Tags: []string{"javascript", "programming", "beginner"}, Description: "Современное введение в программирование на JavaScript", FileURL: "/files/eloquent-js.pdf"},
		{ID: 13, Title: "The Linux Command Line", Author: "William Shotts", Format: FormatPDF, FileSizeLabel: "2.9 MB", DownloadCount: 14, Tags: []string{"linux", "command line", "system administration"}, Description: "Полное руководство по командной строке Linux", FileURL: "/files/linux-cli.pdf"},
		{ID: 14, Title: "Deep Learning", Author: "Ian Goodfellow, Yoshua Bengio, Aaron Courville", Format: FormatPDF, FileSizeLabel: "7.2 MB", DownloadCount: 9, Tags: []string{"machine learning", "deep learning", "ai"}, Description: "Учебник по глубокому обучению", FileURL: "/files/deep-learning.pdf"},
		{ID: 15, Title: "The Mythical Man-Month", Author: "Frederick Brooks", Format: FormatEPUB, FileSizeLabel: "1.5 MB", DownloadCount: 11, Tags: []string{"software engineering", "project management", "classic"}, Description: "Эссе о программной инженерии и управлении проектами", FileURL: "/files/mythical-man-month.epub"},
		{ID: 16, Title: "Domain-Driven Design", Author: "Eric Evans", Format: FormatPDF, FileSizeLabel: "4.8 MB", DownloadCount: 13, Tags: []string{"software design", "architecture", "ddd"}, Description: "Тактика проектирования программного обеспечения", FileURL: "/files/ddd.pdf"},
		{ID: 17, Title: "Continuous Delivery", Author: "Jez Humble, David Farley", Format: FormatPDF, FileSizeLabel: "5.2 MB", DownloadCount: 16, Tags: []string{"devops", "continuous integration", "deployment"}, Description: "Надежный выпуск программного обеспечения", FileURL: "/files/continuous-delivery.pdf"},
		{ID: 18, Title: "Site Reliability Engineering", Author: "Betsy Beyer, Chris Jones, Jennifer Petoff", Format: FormatPDF, FileSizeLabel: "4.6 MB", DownloadCount: 7, Tags: []string{"sre", "devops", "reliability"}, Description: "Как Google запускает производственные системы", FileURL: "/files/sre.pdf"},
		{ID: 19, Title: "The Phoenix Project", Author: "Gene Kim, Kevin Behr, George Spafford", Format: FormatEPUB, FileSizeLabel: "2.3 MB", DownloadCount: 18, Tags: []string{"devops", "novel", "business"}, Description: "Роман об IT, DevOps и помощи бизнесу побеждать", FileURL: "/files/phoenix-project.epub"},
		{ID: 20, Title: "The Clean Coder", Author: "Robert C. Martin", Format: FormatPDF, FileSizeLabel: "2.7 MB", DownloadCount: 22, Tags: []string{"programming", "professionalism", "career"}, Description: "Кодекс поведения для профессионалов-программистов", FileURL: "/files/clean-coder.pdf"},
		{ID: 21, Title: "Working Effectively with Legacy Code", Author: "Michael Feathers", Format: FormatPDF, FileSizeLabel: "3.9 MB", DownloadCount: 20, Tags: []string{"legacy code", "refactoring", "testing"}, Description: "Работа с унаследованным кодом", FileURL: "/files/legacy-code.pdf"},
		{ID: 22, Title: "Python Crash Course", Author: "Eric Matthes", Format: FormatPDF, FileSizeLabel: "3.5 MB", DownloadCount: 29, Tags: []string{"python", "programming", "beginner"}, Description: "Практическое введение в программирование на Python", FileURL: "/files/python-crash-course.pdf"},
		{ID: 23, Title: "Fluent Python", Author: "Luciano Ramalho", Format: FormatEPUB, FileSizeLabel: "4.1 MB", DownloadCount: 24, Tags: []string{"python", "programming", "advanced"}, Description: "Ясный, лаконичный и эффективный программирование на Python", FileURL: "/files/fluent-python.epub"},
		{ID: 24, Title: "The Rust Programming Language", Author: "Steve Klabnik, Carol Nichols", Format: FormatPDF, FileSizeLabel: "3.6 MB", DownloadCount: 10, Tags: []string{"rust", "programming", "systems"}, Description: "Официальная книга по языку Rust", FileURL: "/files/rust-book.pdf"},
		{ID: 25, Title: "Effective Java", Author: "Joshua Bloch", Format: FormatPDF, FileSizeLabel: "3.3 MB", DownloadCount: 26, Tags: []string{"java", "programming", "best practices"}, Description: "Лучшие практики программирования на Java", FileURL: "/files/effective-java.pdf"},
	}
	for index := range catalog {
		catalog[index].CreatedAt = createdAt.Format(timestampLayout)
	}
	return catalog
}
