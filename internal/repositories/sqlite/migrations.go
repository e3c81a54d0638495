package sqlite

// The student table. AUTOINCREMENT keeps deleted IDs from being reused.
const createStudentTable = `
CREATE TABLE IF NOT EXISTS student (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    age INTEGER,
    email TEXT,
    department TEXT,
    gpa REAL,
    graduation_year INTEGER,
    status TEXT CHECK (status IN ('PASS', 'FAIL'))
)`
